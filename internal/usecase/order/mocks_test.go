package usecase

import (
	"context"
	"encoding/json"
	"math/big"
	"sync"
	"time"

	"github.com/SLAP-Solutions/pricelock-order-service/internal/domain"
	publisher "github.com/SLAP-Solutions/pricelock-order-service/internal/infrastructure/kafka"
	"github.com/SLAP-Solutions/pricelock-order-service/internal/infrastructure/metrics"
	"github.com/ethereum/go-ethereum/common"
)

// promauto registers against the default registry, so the metrics instance is
// shared by every test in the package.
var testMetrics = metrics.NewOrderMetrics()

type mockOrderRepo struct {
	mu     sync.Mutex
	orders map[uint64]*domain.PaymentOrder
	nextID uint64

	createErr error
	// settleErr fails the next settleFails calls to SettleOrder (-1 for every
	// call), so a compensation write issued after a transient failure can
	// still land.
	settleErr   error
	settleFails int
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[uint64]*domain.PaymentOrder)}
}

func (r *mockOrderRepo) CreateOrder(order *domain.PaymentOrder) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return 0, r.createErr
	}
	r.nextID++
	stored := *order
	stored.ID = r.nextID
	r.orders[stored.ID] = &stored
	return stored.ID, nil
}

func (r *mockOrderRepo) GetOrderByID(orderID uint64) (*domain.PaymentOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[orderID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	copied := *order
	return &copied, nil
}

func (r *mockOrderRepo) SettleOrder(settlement *domain.Settlement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.settleErr != nil && r.settleFails != 0 {
		if r.settleFails > 0 {
			r.settleFails--
		}
		return r.settleErr
	}
	order, ok := r.orders[settlement.OrderID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	if order.Executed {
		return domain.ErrAlreadyExecuted
	}
	executedAt := settlement.ExecutedAt
	order.Executed = true
	order.ExecutedAt = &executedAt
	order.ExecutedPrice = settlement.ExecutedPrice
	order.PaidAmount = new(big.Int).Set(settlement.PaidAmount)
	order.RefundAmount = new(big.Int).Set(settlement.RefundAmount)
	return nil
}

func (r *mockOrderRepo) CountOrders() (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.orders)), nil
}

func (r *mockOrderRepo) FindPendingOrders() ([]*domain.PaymentOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var pending []*domain.PaymentOrder
	for id := uint64(1); id <= r.nextID; id++ {
		order, ok := r.orders[id]
		if ok && !order.Executed {
			copied := *order
			pending = append(pending, &copied)
		}
	}
	return pending, nil
}

func (r *mockOrderRepo) ListOrders(page, limit int) ([]*domain.PaymentOrder, int64, error) {
	orders, err := r.FindPendingOrders()
	if err != nil {
		return nil, 0, err
	}
	return orders, int64(len(r.orders)), nil
}

type vaultEntry struct {
	payer   common.Address
	amount  *big.Int
	paid    *big.Int
	refund  *big.Int
	settled bool
}

type mockVault struct {
	mu      sync.Mutex
	entries map[uint64]*vaultEntry

	depositErr  error
	disburseErr error
}

func newMockVault() *mockVault {
	return &mockVault{entries: make(map[uint64]*vaultEntry)}
}

func (v *mockVault) Deposit(orderID uint64, payer common.Address, amount *big.Int) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.depositErr != nil {
		return v.depositErr
	}
	if _, ok := v.entries[orderID]; ok {
		return domain.ErrVaultConflict
	}
	v.entries[orderID] = &vaultEntry{payer: payer, amount: new(big.Int).Set(amount)}
	return nil
}

func (v *mockVault) Disburse(orderID uint64, payout, refund *big.Int) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.disburseErr != nil {
		return v.disburseErr
	}
	entry, ok := v.entries[orderID]
	if !ok {
		return domain.ErrNoCollateral
	}
	if entry.settled {
		return domain.ErrVaultConflict
	}
	if new(big.Int).Add(payout, refund).Cmp(entry.amount) != 0 {
		return domain.ErrVaultConflict
	}
	entry.paid = new(big.Int).Set(payout)
	entry.refund = new(big.Int).Set(refund)
	entry.settled = true
	return nil
}

func (v *mockVault) Balance(orderID uint64) (*big.Int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	entry, ok := v.entries[orderID]
	if !ok {
		return nil, domain.ErrNoCollateral
	}
	if entry.settled {
		return big.NewInt(0), nil
	}
	return new(big.Int).Set(entry.amount), nil
}

func (v *mockVault) entry(orderID uint64) *vaultEntry {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.entries[orderID]
}

type mockPriceFeed struct {
	mu    sync.Mutex
	quote domain.PriceQuote
	err   error
	calls int
}

func (f *mockPriceFeed) GetCurrentPrice(ctx context.Context, feedID string) (*domain.PriceQuote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	quote := f.quote
	if quote.Timestamp.IsZero() {
		quote.Timestamp = time.Now()
	}
	return &quote, nil
}

func (f *mockPriceFeed) setPrice(price int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.quote.Price = price
}

type mockPublisher struct {
	mu       sync.Mutex
	messages []domain.Message
}

func (p *mockPublisher) Publish(topic string, msgs ...domain.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msgs...)
	return nil
}

func (p *mockPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.messages)
}

func (p *mockPublisher) eventTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var types []string
	for _, msg := range p.messages {
		var event publisher.OrderEvent
		if err := json.Unmarshal(msg.Value, &event); err == nil {
			types = append(types, event.Type)
		}
	}
	return types
}

func newTestUsecase(feed *mockPriceFeed) (*DefaultOrderUsecase, *mockOrderRepo, *mockVault, *mockPublisher) {
	repo := newMockOrderRepo()
	vault := newMockVault()
	pub := &mockPublisher{}
	uc := NewDefaultOrderUsecase(repo, vault, feed, pub, testMetrics)
	return uc, repo, vault, pub
}
