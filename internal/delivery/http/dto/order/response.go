package orderdto

import (
	"time"

	"github.com/SLAP-Solutions/pricelock-order-service/internal/domain"
)

type OrderResponse struct {
	ID               uint64     `json:"id"`
	Reference        string     `json:"reference"`
	Payer            string     `json:"payer"`
	Receiver         string     `json:"receiver"`
	USDAmount        int64      `json:"usd_amount"`
	FeedID           string     `json:"feed_id"`
	StopLossPrice    int64      `json:"stop_loss_price"`
	TakeProfitPrice  int64      `json:"take_profit_price"`
	Instant          bool       `json:"instant"`
	CollateralAmount string     `json:"collateral_amount"`
	CreatedAt        time.Time  `json:"created_at"`
	CreatedAtPrice   int64      `json:"created_at_price"`
	ExpiresAt        time.Time  `json:"expires_at"`
	Executed         bool       `json:"executed"`
	ExecutedAt       *time.Time `json:"executed_at,omitempty"`
	ExecutedPrice    int64      `json:"executed_price,omitempty"`
	PaidAmount       string     `json:"paid_amount,omitempty"`
	RefundAmount     string     `json:"refund_amount,omitempty"`
	// Price move between creation and settlement, in feed fixed-point units.
	PriceDelta int64 `json:"price_delta,omitempty"`
}

type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int64           `json:"total"`
	Page   int             `json:"page"`
	Limit  int             `json:"limit"`
}

type OrderCountResponse struct {
	Total int64 `json:"total"`
}

type PriceResponse struct {
	FeedID    string    `json:"feed_id"`
	Price     int64     `json:"price"`
	Decimals  uint8     `json:"decimals"`
	Timestamp time.Time `json:"timestamp"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	// Retryable marks expected conditions the caller should poll on, like a
	// trigger that has not crossed yet.
	Retryable bool `json:"retryable"`
}

func ToOrderResponse(order *domain.PaymentOrder) OrderResponse {
	resp := OrderResponse{
		ID:               order.ID,
		Reference:        order.Reference,
		Payer:            order.Payer.Hex(),
		Receiver:         order.Receiver.Hex(),
		USDAmount:        order.USDAmount,
		FeedID:           order.FeedID,
		StopLossPrice:    order.StopLossPrice,
		TakeProfitPrice:  order.TakeProfitPrice,
		Instant:          order.Instant(),
		CollateralAmount: order.CollateralAmount.String(),
		CreatedAt:        order.CreatedAt,
		CreatedAtPrice:   order.CreatedAtPrice,
		ExpiresAt:        order.ExpiresAt,
		Executed:         order.Executed,
		ExecutedAt:       order.ExecutedAt,
		ExecutedPrice:    order.ExecutedPrice,
	}
	if order.Executed {
		if order.PaidAmount != nil {
			resp.PaidAmount = order.PaidAmount.String()
		}
		if order.RefundAmount != nil {
			resp.RefundAmount = order.RefundAmount.String()
		}
		resp.PriceDelta = order.ExecutedPrice - order.CreatedAtPrice
	}
	return resp
}
