package domain

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// PaymentOrder is a conditional payment: the receiver is owed USDAmount
// (cents), paid out in native currency once the oracle price for FeedID
// crosses one of the bounds. Collateral is escrowed in the vault at creation
// and split into payout and refund at settlement.
type PaymentOrder struct {
	ID        uint64
	Reference string
	Payer     common.Address
	Receiver  common.Address

	USDAmount int64
	FeedID    string

	// Price bounds share the feed's fixed-point scale. Equal bounds mark an
	// instant order, executable at any price. Bound ordering is not checked:
	// the caller owns that risk.
	StopLossPrice   int64
	TakeProfitPrice int64

	CollateralAmount *big.Int

	CreatedAt      time.Time
	CreatedAtPrice int64
	ExpiresAt      time.Time

	// Executed flips false->true exactly once. The fields below are written
	// only by that flip.
	Executed      bool
	ExecutedAt    *time.Time
	ExecutedPrice int64
	PaidAmount    *big.Int
	RefundAmount  *big.Int

	UpdatedAt time.Time
}

// Instant reports whether the order executes unconditionally at any price.
func (o *PaymentOrder) Instant() bool {
	return o.StopLossPrice == o.TakeProfitPrice
}

// Expired reports whether the normal execution window has closed.
// Early execution by the payer ignores this.
func (o *PaymentOrder) Expired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}

// TriggerMet reports whether price satisfies the execution condition.
// Either bound crossing is sufficient.
func (o *PaymentOrder) TriggerMet(price int64) bool {
	if o.Instant() {
		return true
	}
	return price <= o.StopLossPrice || price >= o.TakeProfitPrice
}

// Settlement is the record written by the single executed flip.
type Settlement struct {
	OrderID       uint64
	ExecutedAt    time.Time
	ExecutedPrice int64
	PaidAmount    *big.Int
	RefundAmount  *big.Int
}
