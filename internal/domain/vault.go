package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// CollateralVault escrows the native-currency collateral of each order.
// Deposit happens exactly once at creation, Disburse exactly once at
// settlement, and the disbursed split must equal the deposit.
type CollateralVault interface {
	Deposit(orderID uint64, payer common.Address, amount *big.Int) error
	Disburse(orderID uint64, payout, refund *big.Int) error
	Balance(orderID uint64) (*big.Int, error)
}
