package usecase

import (
	"context"

	"github.com/SLAP-Solutions/pricelock-order-service/internal/domain"
)

func (uc *DefaultOrderUsecase) GetOrderByID(orderID uint64) (*domain.PaymentOrder, error) {
	return uc.OrderRepo.GetOrderByID(orderID)
}

func (uc *DefaultOrderUsecase) GetTotalOrders() (int64, error) {
	return uc.OrderRepo.CountOrders()
}

func (uc *DefaultOrderUsecase) ListOrders(page, limit int) ([]*domain.PaymentOrder, int64, error) {
	return uc.OrderRepo.ListOrders(page, limit)
}

// GetCurrentPrice is a zero-side-effect pass-through read for off-chain
// pollers that want the same quote the execution paths would see.
func (uc *DefaultOrderUsecase) GetCurrentPrice(ctx context.Context, feedID string) (*domain.PriceQuote, error) {
	return uc.fetchQuote(ctx, feedID)
}
