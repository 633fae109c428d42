package domain

type OrderRepository interface {
	CreateOrder(order *PaymentOrder) (uint64, error)
	GetOrderByID(orderID uint64) (*PaymentOrder, error)
	// SettleOrder performs the single executed flip. Returns ErrAlreadyExecuted
	// when the order was settled by a concurrent caller.
	SettleOrder(settlement *Settlement) error
	CountOrders() (int64, error)
	FindPendingOrders() ([]*PaymentOrder, error)
	ListOrders(page, limit int) ([]*PaymentOrder, int64, error)
}
