package usecase

import (
	"fmt"
	"math/big"
)

var weiPerToken = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// ComputePayout converts a USD cent amount into native wei at the given
// oracle price:
//
//	payout = usdCents * 1e18 * 10^decimals / (price * 100)
//
// Pure integer arithmetic, floor division. Cents are divided out by the
// factor 100 in the denominator, the price by its own fixed-point scale.
func ComputePayout(usdCents int64, price int64, decimals uint8) (*big.Int, error) {
	if price <= 0 {
		return nil, fmt.Errorf("non-positive oracle price: %d", price)
	}

	payout := new(big.Int).Mul(big.NewInt(usdCents), weiPerToken)
	payout.Mul(payout, new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil))

	denominator := new(big.Int).Mul(big.NewInt(price), big.NewInt(100))
	return payout.Quo(payout, denominator), nil
}

// splitCollateral caps the payout at the escrowed collateral. An underfunded
// order pays out everything it has and refunds nothing; the shortfall is the
// receiver's documented loss, the order never deadlocks.
func splitCollateral(payout, collateral *big.Int) (paid, refund *big.Int) {
	if payout.Cmp(collateral) >= 0 {
		return new(big.Int).Set(collateral), big.NewInt(0)
	}
	return new(big.Int).Set(payout), new(big.Int).Sub(collateral, payout)
}
