package models

import "time"

// VaultEntryModel is the escrow record of one order's collateral. One row per
// order, settled flips once.
type VaultEntryModel struct {
	OrderID uint64 `gorm:"primaryKey"`
	Payer   string

	Amount       string `gorm:"type:numeric(78,0)"`
	PaidAmount   string `gorm:"type:numeric(78,0)"`
	RefundAmount string `gorm:"type:numeric(78,0)"`

	Settled   bool
	SettledAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
