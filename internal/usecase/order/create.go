package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/SLAP-Solutions/pricelock-order-service/internal/domain"
	publisher "github.com/SLAP-Solutions/pricelock-order-service/internal/infrastructure/kafka"
	orderdto "github.com/SLAP-Solutions/pricelock-order-service/internal/usecase/dto/order"
	"github.com/ethereum/go-ethereum/common"
)

// CreateTriggerOrder validates the input, snapshots the current oracle price
// and stores a pending order with its collateral escrowed in the vault.
// Bound ordering is deliberately not validated: any stop-loss/take-profit
// pair is accepted and equal bounds produce an instant order.
func (uc *DefaultOrderUsecase) CreateTriggerOrder(ctx context.Context, input *orderdto.CreateTriggerOrderInput) (*domain.PaymentOrder, error) {
	if err := validateCreateInput(input.Receiver, input.USDAmount, input.CollateralAmount); err != nil {
		uc.Metrics.RecordError("validation")
		return nil, err
	}

	quote, err := uc.fetchQuote(ctx, input.FeedID)
	if err != nil {
		uc.Metrics.RecordError("oracle")
		return nil, fmt.Errorf("fetch creation price: %w", err)
	}

	now := time.Now()
	order := &domain.PaymentOrder{
		Reference:        uc.newReference(),
		Payer:            input.Payer,
		Receiver:         input.Receiver,
		USDAmount:        input.USDAmount,
		FeedID:           input.FeedID,
		StopLossPrice:    input.StopLossPrice,
		TakeProfitPrice:  input.TakeProfitPrice,
		CollateralAmount: new(big.Int).Set(input.CollateralAmount),
		CreatedAt:        now,
		CreatedAtPrice:   quote.Price,
		ExpiresAt:        now.Add(input.ExpiryOffset),
	}

	if err := uc.storeAndEscrow(order); err != nil {
		return nil, err
	}

	orderType := "trigger"
	if order.Instant() {
		orderType = "instant"
	}
	uc.Metrics.RecordOrderCreated(orderType, order.FeedID, float64(order.USDAmount)/100)
	uc.publishOrderEvent(publisher.EventOrderCreated, order)

	return order, nil
}

// CreateAndExecuteOrder is the atomic instant variant: the order is created
// with the instant sentinel bounds and settled in the same call at the price
// fetched at creation. It never leaves a pending instant order behind.
func (uc *DefaultOrderUsecase) CreateAndExecuteOrder(ctx context.Context, input *orderdto.CreateInstantOrderInput) (*domain.PaymentOrder, error) {
	if err := validateCreateInput(input.Receiver, input.USDAmount, input.CollateralAmount); err != nil {
		uc.Metrics.RecordError("validation")
		return nil, err
	}

	quote, err := uc.fetchQuote(ctx, input.FeedID)
	if err != nil {
		uc.Metrics.RecordError("oracle")
		return nil, fmt.Errorf("fetch creation price: %w", err)
	}

	now := time.Now()
	order := &domain.PaymentOrder{
		Reference:        uc.newReference(),
		Payer:            input.Payer,
		Receiver:         input.Receiver,
		USDAmount:        input.USDAmount,
		FeedID:           input.FeedID,
		StopLossPrice:    0,
		TakeProfitPrice:  0,
		CollateralAmount: new(big.Int).Set(input.CollateralAmount),
		CreatedAt:        now,
		CreatedAtPrice:   quote.Price,
		ExpiresAt:        now,
	}

	if err := uc.storeAndEscrow(order); err != nil {
		return nil, err
	}

	uc.Metrics.RecordOrderCreated("instant", order.FeedID, float64(order.USDAmount)/100)
	uc.publishOrderEvent(publisher.EventOrderCreated, order)

	// Settle at the price fetched above, no second oracle round-trip. A
	// settlement failure must not strand a pending instant order with its
	// collateral escrowed, so the order is voided before the error surfaces.
	if err := uc.settle(order, quote, "instant"); err != nil {
		uc.voidInstantOrderDueToSettleFailure(order, err)
		return nil, fmt.Errorf("settle instant order %d: %w", order.ID, err)
	}

	return order, nil
}

func validateCreateInput(receiver common.Address, usdAmount int64, collateral *big.Int) error {
	if receiver == (common.Address{}) {
		return domain.ErrInvalidReceiver
	}
	if usdAmount <= 0 {
		return domain.ErrInvalidAmount
	}
	if collateral == nil || collateral.Sign() <= 0 {
		return domain.ErrInvalidCollateral
	}
	return nil
}

// storeAndEscrow persists the pending order and deposits its collateral.
// A deposit failure voids the just-created order so it can never settle
// against collateral that never arrived.
func (uc *DefaultOrderUsecase) storeAndEscrow(order *domain.PaymentOrder) error {
	orderID, err := uc.OrderRepo.CreateOrder(order)
	if err != nil {
		uc.Metrics.RecordError("repository")
		return fmt.Errorf("create order: %w", err)
	}
	order.ID = orderID

	if err := uc.Vault.Deposit(order.ID, order.Payer, order.CollateralAmount); err != nil {
		uc.voidOrderDueToDepositFailure(order, err)
		return fmt.Errorf("escrow collateral for order %d: %w", order.ID, err)
	}

	return nil
}

// voidOrderDueToDepositFailure retires an order whose collateral deposit
// failed: the executed flag is flipped with zero payout and refund, so both
// execution paths will refuse it from now on. A zero executed price marks the
// void; genuine settlements always record a positive price.
func (uc *DefaultOrderUsecase) voidOrderDueToDepositFailure(order *domain.PaymentOrder, depositErr error) {
	slog.Error("collateral deposit failed after order creation, voiding order",
		"order_id", order.ID, "error", depositErr)

	now := time.Now()
	settlement := &domain.Settlement{
		OrderID:       order.ID,
		ExecutedAt:    now,
		ExecutedPrice: 0,
		PaidAmount:    big.NewInt(0),
		RefundAmount:  big.NewInt(0),
	}
	if err := uc.OrderRepo.SettleOrder(settlement); err != nil {
		slog.Error("failed to void order after deposit failure", "order_id", order.ID, "error", err)
		return
	}
	uc.Metrics.RecordError("deposit")

	order.Executed = true
	order.ExecutedAt = &now
	order.ExecutedPrice = 0
	order.PaidAmount = big.NewInt(0)
	order.RefundAmount = big.NewInt(0)
	uc.publishOrderEvent(publisher.EventOrderVoided, order)
}

// voidInstantOrderDueToSettleFailure unwinds an instant order whose
// settlement failed after its collateral was already escrowed: the order is
// retired at price zero with no payout and the full collateral refunded to
// the payer. When the executed flag has already flipped, the recorded
// settlement amounts are authoritative and only the disbursement is missing,
// which settle has already reported.
func (uc *DefaultOrderUsecase) voidInstantOrderDueToSettleFailure(order *domain.PaymentOrder, settleErr error) {
	slog.Error("instant settlement failed after escrow, voiding order",
		"order_id", order.ID, "error", settleErr)
	uc.Metrics.RecordError("settle")

	now := time.Now()
	refund := new(big.Int).Set(order.CollateralAmount)
	settlement := &domain.Settlement{
		OrderID:       order.ID,
		ExecutedAt:    now,
		ExecutedPrice: 0,
		PaidAmount:    big.NewInt(0),
		RefundAmount:  refund,
	}
	switch err := uc.OrderRepo.SettleOrder(settlement); {
	case err == nil:
	case errors.Is(err, domain.ErrAlreadyExecuted):
		return
	default:
		slog.Error("failed to void instant order after settlement failure",
			"order_id", order.ID, "error", err)
		return
	}

	if err := uc.Vault.Disburse(order.ID, big.NewInt(0), refund); err != nil {
		slog.Error("failed to return collateral for voided instant order",
			"order_id", order.ID, "error", err)
	}

	order.Executed = true
	order.ExecutedAt = &now
	order.ExecutedPrice = 0
	order.PaidAmount = big.NewInt(0)
	order.RefundAmount = refund
	uc.publishOrderEvent(publisher.EventOrderVoided, order)
}
