package usecase

import (
	"context"
	"log"

	"github.com/SLAP-Solutions/pricelock-order-service/internal/domain"
	"github.com/SLAP-Solutions/pricelock-order-service/internal/infrastructure/metrics"
	orderdto "github.com/SLAP-Solutions/pricelock-order-service/internal/usecase/dto/order"
	"github.com/ethereum/go-ethereum/common"
	"github.com/jaevor/go-nanoid"
)

type OrderUsecase interface {
	CreateTriggerOrder(ctx context.Context, input *orderdto.CreateTriggerOrderInput) (*domain.PaymentOrder, error)
	CreateAndExecuteOrder(ctx context.Context, input *orderdto.CreateInstantOrderInput) (*domain.PaymentOrder, error)

	EvaluateAndExecute(ctx context.Context, orderID uint64) (*domain.PaymentOrder, error)
	ExecuteEarly(ctx context.Context, orderID uint64, caller common.Address) (*domain.PaymentOrder, error)

	GetOrderByID(orderID uint64) (*domain.PaymentOrder, error)
	GetTotalOrders() (int64, error)
	ListOrders(page, limit int) ([]*domain.PaymentOrder, int64, error)
	GetCurrentPrice(ctx context.Context, feedID string) (*domain.PriceQuote, error)

	RunPendingScan(ctx context.Context) error
}

type DefaultOrderUsecase struct {
	OrderRepo domain.OrderRepository
	Vault     domain.CollateralVault
	PriceFeed domain.PriceFeed
	Publisher domain.EventPublisher
	Metrics   *metrics.OrderMetrics

	newReference func() string
}

func NewDefaultOrderUsecase(
	orderRepo domain.OrderRepository,
	vault domain.CollateralVault,
	priceFeed domain.PriceFeed,
	publisher domain.EventPublisher,
	orderMetrics *metrics.OrderMetrics) *DefaultOrderUsecase {

	refGenerator, err := nanoid.Standard(15)
	if err != nil {
		log.Fatalf("failed to init reference generator: %v", err)
	}

	return &DefaultOrderUsecase{
		OrderRepo:    orderRepo,
		Vault:        vault,
		PriceFeed:    priceFeed,
		Publisher:    publisher,
		Metrics:      orderMetrics,
		newReference: refGenerator,
	}
}
