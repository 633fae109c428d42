package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SLAP-Solutions/pricelock-order-service/internal/domain"
	publisher "github.com/SLAP-Solutions/pricelock-order-service/internal/infrastructure/kafka"
	"github.com/ethereum/go-ethereum/common"
)

// EvaluateAndExecute settles an order through the normal trigger path. Any
// caller may invoke it: eligibility depends only on the order and the live
// oracle price. Expired orders are refused here; the payer can still reclaim
// them through ExecuteEarly.
func (uc *DefaultOrderUsecase) EvaluateAndExecute(ctx context.Context, orderID uint64) (*domain.PaymentOrder, error) {
	order, err := uc.OrderRepo.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.Executed {
		return nil, domain.ErrAlreadyExecuted
	}
	if order.Expired(time.Now()) {
		return nil, domain.ErrOrderExpired
	}

	quote, err := uc.fetchQuote(ctx, order.FeedID)
	if err != nil {
		uc.Metrics.RecordError("oracle")
		return nil, fmt.Errorf("fetch execution price: %w", err)
	}

	if !order.TriggerMet(quote.Price) {
		uc.Metrics.RecordTriggerNotMet(order.FeedID)
		return nil, domain.ErrTriggerNotMet
	}

	if err := uc.settle(order, quote, "trigger"); err != nil {
		return nil, err
	}

	return order, nil
}

// ExecuteEarly lets the payer settle at the current price without waiting
// for a bound crossing. It skips both the trigger check and the expiry
// check: a payer can always free locked collateral.
func (uc *DefaultOrderUsecase) ExecuteEarly(ctx context.Context, orderID uint64, caller common.Address) (*domain.PaymentOrder, error) {
	order, err := uc.OrderRepo.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.Executed {
		return nil, domain.ErrAlreadyExecuted
	}
	if caller != order.Payer {
		uc.Metrics.RecordError("unauthorized")
		return nil, domain.ErrUnauthorized
	}

	quote, err := uc.fetchQuote(ctx, order.FeedID)
	if err != nil {
		uc.Metrics.RecordError("oracle")
		return nil, fmt.Errorf("fetch execution price: %w", err)
	}

	if err := uc.settle(order, quote, "early"); err != nil {
		return nil, err
	}

	return order, nil
}

// settle performs the irreversible half of every execution path: compute the
// payout, flip the executed flag exactly once and split the collateral. The
// repository flip is the synchronization point, so a caller losing the race
// gets ErrAlreadyExecuted and no funds move twice.
func (uc *DefaultOrderUsecase) settle(order *domain.PaymentOrder, quote *domain.PriceQuote, path string) error {
	payout, err := ComputePayout(order.USDAmount, quote.Price, quote.Decimals)
	if err != nil {
		uc.Metrics.RecordError("payout")
		return fmt.Errorf("compute payout for order %d: %w", order.ID, err)
	}

	collateral, err := uc.Vault.Balance(order.ID)
	if err != nil {
		uc.Metrics.RecordError("vault")
		return fmt.Errorf("read collateral for order %d: %w", order.ID, err)
	}

	paid, refund := splitCollateral(payout, collateral)
	now := time.Now()

	settlement := &domain.Settlement{
		OrderID:       order.ID,
		ExecutedAt:    now,
		ExecutedPrice: quote.Price,
		PaidAmount:    paid,
		RefundAmount:  refund,
	}
	if err := uc.OrderRepo.SettleOrder(settlement); err != nil {
		return err
	}

	if err := uc.Vault.Disburse(order.ID, paid, refund); err != nil {
		// The flip already happened; this is an accounting inconsistency, not
		// a retryable condition. Surface it loudly.
		slog.Error("collateral disbursement failed after settlement",
			"order_id", order.ID, "paid", paid.String(), "refund", refund.String(), "error", err)
		uc.Metrics.RecordError("disburse")
		return fmt.Errorf("disburse collateral for order %d: %w", order.ID, err)
	}

	order.Executed = true
	order.ExecutedAt = &now
	order.ExecutedPrice = quote.Price
	order.PaidAmount = paid
	order.RefundAmount = refund

	if payout.Cmp(collateral) > 0 {
		slog.Warn("order settled underfunded, receiver shortfall",
			"order_id", order.ID, "payout", payout.String(), "collateral", collateral.String())
		uc.Metrics.RecordShortfall(order.FeedID)
	}

	uc.Metrics.RecordOrderExecuted(path, order.FeedID, float64(order.USDAmount)/100)
	uc.publishOrderEvent(publisher.EventOrderExecuted, order)

	return nil
}

func (uc *DefaultOrderUsecase) fetchQuote(ctx context.Context, feedID string) (*domain.PriceQuote, error) {
	start := time.Now()
	quote, err := uc.PriceFeed.GetCurrentPrice(ctx, feedID)
	uc.Metrics.ObserveOracleRequest(feedID, time.Since(start).Seconds(), err == nil)
	if err != nil {
		return nil, err
	}
	return quote, nil
}

func (uc *DefaultOrderUsecase) publishOrderEvent(eventType string, order *domain.PaymentOrder) {
	if uc.Publisher == nil {
		return
	}
	event := publisher.NewOrderEvent(eventType, order)
	go func(event publisher.OrderEvent) {
		if err := publisher.PublishOrderEvent(uc.Publisher, event); err != nil {
			slog.Error("failed to publish order event", "type", event.Type, "order_id", event.OrderID, "error", err)
		}
	}(event)
}
