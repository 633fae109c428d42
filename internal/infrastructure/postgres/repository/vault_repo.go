package repository

import (
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/SLAP-Solutions/pricelock-order-service/internal/domain"
	"github.com/SLAP-Solutions/pricelock-order-service/internal/infrastructure/postgres/mappers"
	"github.com/SLAP-Solutions/pricelock-order-service/internal/infrastructure/postgres/models"
	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultVaultRepository struct {
	DB *gorm.DB
}

func NewDefaultVaultRepository(db *gorm.DB) *DefaultVaultRepository {
	return &DefaultVaultRepository{DB: db}
}

// Deposit escrows the collateral of a freshly created order. The order id is
// the primary key, so a second deposit for the same order conflicts.
func (r *DefaultVaultRepository) Deposit(orderID uint64, payer common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return domain.ErrInvalidCollateral
	}

	entry := models.VaultEntryModel{
		OrderID: orderID,
		Payer:   payer.Hex(),
		Amount:  amount.String(),
	}
	result := r.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&entry)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrVaultConflict
	}
	return nil
}

// Disburse pays out the escrow exactly once. The split must account for the
// full deposit: payout + refund == amount, or nothing moves.
func (r *DefaultVaultRepository) Disburse(orderID uint64, payout, refund *big.Int) error {
	var entry models.VaultEntryModel
	if err := r.DB.First(&entry, "order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNoCollateral
		}
		return err
	}

	deposited, ok := new(big.Int).SetString(entry.Amount, 10)
	if !ok {
		return fmt.Errorf("corrupt vault amount for order %d: %q", orderID, entry.Amount)
	}
	total := new(big.Int).Add(payout, refund)
	if total.Cmp(deposited) != 0 {
		return fmt.Errorf("disburse split %s does not match deposit %s for order %d: %w",
			total.String(), deposited.String(), orderID, domain.ErrVaultConflict)
	}

	now := time.Now()
	result := r.DB.Model(&models.VaultEntryModel{}).
		Where("order_id = ? AND settled = ?", orderID, false).
		Updates(map[string]interface{}{
			"paid_amount":   mappers.WeiToColumn(payout),
			"refund_amount": mappers.WeiToColumn(refund),
			"settled":       true,
			"settled_at":    now,
			"updated_at":    now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrVaultConflict
	}
	return nil
}

// Balance returns the escrow still held for the order: the full deposit
// before settlement, zero after.
func (r *DefaultVaultRepository) Balance(orderID uint64) (*big.Int, error) {
	var entry models.VaultEntryModel
	if err := r.DB.First(&entry, "order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNoCollateral
		}
		return nil, err
	}
	if entry.Settled {
		return big.NewInt(0), nil
	}

	amount, ok := new(big.Int).SetString(entry.Amount, 10)
	if !ok {
		return nil, fmt.Errorf("corrupt vault amount for order %d: %q", orderID, entry.Amount)
	}
	return amount, nil
}
