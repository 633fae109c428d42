package models

import "time"

type OrderModel struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	Reference string `gorm:"uniqueIndex"`
	Payer     string `gorm:"index:idx_payer"`
	Receiver  string

	UsdAmount int64
	FeedID    string `gorm:"index:idx_feed"`

	StopLossPrice   int64
	TakeProfitPrice int64

	// Wei amounts, stored as arbitrary-precision decimals.
	CollateralAmount string `gorm:"type:numeric(78,0)"`
	PaidAmount       string `gorm:"type:numeric(78,0)"`
	RefundAmount     string `gorm:"type:numeric(78,0)"`

	CreatedAtPrice int64
	ExpiresAt      time.Time `gorm:"index:idx_executed_expires"`

	Executed      bool `gorm:"index:idx_executed_expires"`
	ExecutedAt    *time.Time
	ExecutedPrice int64

	CreatedAt time.Time `gorm:"index:idx_created_at"`
	UpdatedAt time.Time
}
