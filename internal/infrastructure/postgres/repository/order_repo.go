package repository

import (
	"errors"
	"time"

	"github.com/SLAP-Solutions/pricelock-order-service/internal/domain"
	"github.com/SLAP-Solutions/pricelock-order-service/internal/infrastructure/postgres/mappers"
	"github.com/SLAP-Solutions/pricelock-order-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultOrderRepository struct {
	DB *gorm.DB
}

func NewDefaultOrderRepository(db *gorm.DB) *DefaultOrderRepository {
	return &DefaultOrderRepository{DB: db}
}

func (r *DefaultOrderRepository) CreateOrder(order *domain.PaymentOrder) (uint64, error) {
	orderModel := mappers.ToGORMOrder(order)
	orderModel.ID = 0 // the sequence assigns ids, never the caller
	if err := r.DB.Create(orderModel).Error; err != nil {
		return 0, err
	}
	return orderModel.ID, nil
}

func (r *DefaultOrderRepository) GetOrderByID(orderID uint64) (*domain.PaymentOrder, error) {
	var order models.OrderModel
	if err := r.DB.First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}

	return mappers.ToDomainOrder(&order), nil
}

// SettleOrder flips executed with a conditional update, so of two concurrent
// settlement attempts exactly one sees a row change and the other gets
// ErrAlreadyExecuted.
func (r *DefaultOrderRepository) SettleOrder(settlement *domain.Settlement) error {
	result := r.DB.Model(&models.OrderModel{}).
		Where("id = ? AND executed = ?", settlement.OrderID, false).
		Updates(map[string]interface{}{
			"executed":       true,
			"executed_at":    settlement.ExecutedAt,
			"executed_price": settlement.ExecutedPrice,
			"paid_amount":    mappers.WeiToColumn(settlement.PaidAmount),
			"refund_amount":  mappers.WeiToColumn(settlement.RefundAmount),
			"updated_at":     time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.DB.Model(&models.OrderModel{}).Where("id = ?", settlement.OrderID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domain.ErrOrderNotFound
		}
		return domain.ErrAlreadyExecuted
	}
	return nil
}

func (r *DefaultOrderRepository) CountOrders() (int64, error) {
	var total int64
	if err := r.DB.Model(&models.OrderModel{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *DefaultOrderRepository) FindPendingOrders() ([]*domain.PaymentOrder, error) {
	var orderModels []models.OrderModel
	if err := r.DB.
		Where("executed = ?", false).
		Order("id ASC").
		Find(&orderModels).Error; err != nil {
		return nil, err
	}

	orders := make([]*domain.PaymentOrder, 0, len(orderModels))
	for i := range orderModels {
		orders = append(orders, mappers.ToDomainOrder(&orderModels[i]))
	}
	return orders, nil
}

func (r *DefaultOrderRepository) ListOrders(page, limit int) ([]*domain.PaymentOrder, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	var total int64
	if err := r.DB.Model(&models.OrderModel{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orderModels []models.OrderModel
	if err := r.DB.
		Order("id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&orderModels).Error; err != nil {
		return nil, 0, err
	}

	orders := make([]*domain.PaymentOrder, 0, len(orderModels))
	for i := range orderModels {
		orders = append(orders, mappers.ToDomainOrder(&orderModels[i]))
	}
	return orders, total, nil
}
