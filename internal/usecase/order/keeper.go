package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SLAP-Solutions/pricelock-order-service/internal/domain"
)

// RunPendingScan walks every pending order once and attempts the normal
// execution path on each. TriggerNotMet is the expected steady state and is
// skipped quietly; so are orders whose window expired, which stay reclaimable
// by their payer. The background keeper calls this on a ticker.
func (uc *DefaultOrderUsecase) RunPendingScan(ctx context.Context) error {
	pending, err := uc.OrderRepo.FindPendingOrders()
	if err != nil {
		return err
	}
	uc.Metrics.RecordPendingOrders(len(pending))

	for _, order := range pending {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		_, err := uc.EvaluateAndExecute(ctx, order.ID)
		switch {
		case err == nil:
			slog.Info("keeper executed order", "order_id", order.ID, "feed", order.FeedID)
		case errors.Is(err, domain.ErrTriggerNotMet),
			errors.Is(err, domain.ErrOrderExpired),
			errors.Is(err, domain.ErrAlreadyExecuted):
			// Expected: retry next tick, window closed, or a racer won.
		default:
			slog.Error("keeper execution attempt failed", "order_id", order.ID, "error", err)
		}
	}

	return nil
}
