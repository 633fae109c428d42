package mappers

import (
	"math/big"

	"github.com/SLAP-Solutions/pricelock-order-service/internal/domain"
	"github.com/SLAP-Solutions/pricelock-order-service/internal/infrastructure/postgres/models"
	"github.com/ethereum/go-ethereum/common"
)

func ToDomainOrder(model *models.OrderModel) *domain.PaymentOrder {
	return &domain.PaymentOrder{
		ID:               model.ID,
		Reference:        model.Reference,
		Payer:            common.HexToAddress(model.Payer),
		Receiver:         common.HexToAddress(model.Receiver),
		USDAmount:        model.UsdAmount,
		FeedID:           model.FeedID,
		StopLossPrice:    model.StopLossPrice,
		TakeProfitPrice:  model.TakeProfitPrice,
		CollateralAmount: weiFromColumn(model.CollateralAmount),
		CreatedAt:        model.CreatedAt,
		CreatedAtPrice:   model.CreatedAtPrice,
		ExpiresAt:        model.ExpiresAt,
		Executed:         model.Executed,
		ExecutedAt:       model.ExecutedAt,
		ExecutedPrice:    model.ExecutedPrice,
		PaidAmount:       weiFromColumn(model.PaidAmount),
		RefundAmount:     weiFromColumn(model.RefundAmount),
		UpdatedAt:        model.UpdatedAt,
	}
}

func ToGORMOrder(order *domain.PaymentOrder) *models.OrderModel {
	return &models.OrderModel{
		ID:               order.ID,
		Reference:        order.Reference,
		Payer:            order.Payer.Hex(),
		Receiver:         order.Receiver.Hex(),
		UsdAmount:        order.USDAmount,
		FeedID:           order.FeedID,
		StopLossPrice:    order.StopLossPrice,
		TakeProfitPrice:  order.TakeProfitPrice,
		CollateralAmount: WeiToColumn(order.CollateralAmount),
		CreatedAtPrice:   order.CreatedAtPrice,
		ExpiresAt:        order.ExpiresAt,
		Executed:         order.Executed,
		ExecutedAt:       order.ExecutedAt,
		ExecutedPrice:    order.ExecutedPrice,
		PaidAmount:       WeiToColumn(order.PaidAmount),
		RefundAmount:     WeiToColumn(order.RefundAmount),
		CreatedAt:        order.CreatedAt,
		UpdatedAt:        order.UpdatedAt,
	}
}

// WeiToColumn renders a wei amount for a numeric column. Unset amounts are
// stored as zero.
func WeiToColumn(amount *big.Int) string {
	if amount == nil {
		return "0"
	}
	return amount.String()
}

func weiFromColumn(column string) *big.Int {
	if column == "" {
		return big.NewInt(0)
	}
	amount, ok := new(big.Int).SetString(column, 10)
	if !ok {
		return big.NewInt(0)
	}
	return amount
}
