package publisher

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/SLAP-Solutions/pricelock-order-service/internal/domain"
	"github.com/google/uuid"
)

const (
	OrderEventsTopic = "order-events"

	EventOrderCreated  = "order.created"
	EventOrderExecuted = "order.executed"
	// Voided orders were retired without a real settlement, either because
	// the collateral deposit failed or because an instant settlement could
	// not complete. Indexers that saw order.created need this to close out.
	EventOrderVoided = "order.voided"
)

// OrderEvent is what off-chain indexers consume. The created event is the
// only way an external caller learns the id assigned to its order.
type OrderEvent struct {
	EventID       string    `json:"event_id"`
	Type          string    `json:"type"`
	OrderID       uint64    `json:"order_id"`
	Reference     string    `json:"reference"`
	Payer         string    `json:"payer"`
	Receiver      string    `json:"receiver"`
	USDAmount     int64     `json:"usd_amount"`
	FeedID        string    `json:"feed_id"`
	ExecutedPrice int64     `json:"executed_price,omitempty"`
	PaidAmount    string    `json:"paid_amount,omitempty"`
	RefundAmount  string    `json:"refund_amount,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func NewOrderEvent(eventType string, order *domain.PaymentOrder) OrderEvent {
	event := OrderEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		OrderID:    order.ID,
		Reference:  order.Reference,
		Payer:      order.Payer.Hex(),
		Receiver:   order.Receiver.Hex(),
		USDAmount:  order.USDAmount,
		FeedID:     order.FeedID,
		OccurredAt: time.Now(),
	}
	if order.Executed {
		event.ExecutedPrice = order.ExecutedPrice
		if order.PaidAmount != nil {
			event.PaidAmount = order.PaidAmount.String()
		}
		if order.RefundAmount != nil {
			event.RefundAmount = order.RefundAmount.String()
		}
	}
	return event
}

// PublishOrderEvent marshals the event and publishes it keyed by order id, so
// every event of one order lands in the same partition in order.
func PublishOrderEvent(pub domain.EventPublisher, event OrderEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}
	key := []byte(fmt.Sprintf("%d", event.OrderID))
	return pub.Publish(OrderEventsTopic, domain.Message{Key: key, Value: value})
}
