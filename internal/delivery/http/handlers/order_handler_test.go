package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	httpdto "github.com/SLAP-Solutions/pricelock-order-service/internal/delivery/http/dto/order"
	"github.com/SLAP-Solutions/pricelock-order-service/internal/domain"
	orderdto "github.com/SLAP-Solutions/pricelock-order-service/internal/usecase/dto/order"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	payerAddr    = common.HexToAddress("0x1111111111111111111111111111111111111111")
	receiverAddr = common.HexToAddress("0x2222222222222222222222222222222222222222")
)

type stubUsecase struct {
	order *domain.PaymentOrder
	err   error

	lastCaller common.Address
}

func (s *stubUsecase) CreateTriggerOrder(ctx context.Context, input *orderdto.CreateTriggerOrderInput) (*domain.PaymentOrder, error) {
	return s.order, s.err
}

func (s *stubUsecase) CreateAndExecuteOrder(ctx context.Context, input *orderdto.CreateInstantOrderInput) (*domain.PaymentOrder, error) {
	return s.order, s.err
}

func (s *stubUsecase) EvaluateAndExecute(ctx context.Context, orderID uint64) (*domain.PaymentOrder, error) {
	return s.order, s.err
}

func (s *stubUsecase) ExecuteEarly(ctx context.Context, orderID uint64, caller common.Address) (*domain.PaymentOrder, error) {
	s.lastCaller = caller
	return s.order, s.err
}

func (s *stubUsecase) GetOrderByID(orderID uint64) (*domain.PaymentOrder, error) {
	return s.order, s.err
}

func (s *stubUsecase) GetTotalOrders() (int64, error) {
	return 7, s.err
}

func (s *stubUsecase) ListOrders(page, limit int) ([]*domain.PaymentOrder, int64, error) {
	if s.order == nil {
		return nil, 0, s.err
	}
	return []*domain.PaymentOrder{s.order}, 1, s.err
}

func (s *stubUsecase) GetCurrentPrice(ctx context.Context, feedID string) (*domain.PriceQuote, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.PriceQuote{Price: 200000, Decimals: 3, Timestamp: time.Unix(1700000000, 0)}, nil
}

func (s *stubUsecase) RunPendingScan(ctx context.Context) error { return s.err }

func pendingOrder() *domain.PaymentOrder {
	return &domain.PaymentOrder{
		ID:               1,
		Reference:        "ref-1",
		Payer:            payerAddr,
		Receiver:         receiverAddr,
		USDAmount:        1000,
		FeedID:           "ETH/USD",
		StopLossPrice:    95000,
		TakeProfitPrice:  105000,
		CollateralAmount: big.NewInt(1e18),
		CreatedAt:        time.Now(),
		CreatedAtPrice:   100000,
		ExpiresAt:        time.Now().Add(time.Hour),
	}
}

func newTestRouter(uc *stubUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewOrderHandler(uc)

	api := router.Group("/api/v1")
	api.POST("/orders", handler.CreateTriggerOrder)
	api.POST("/orders/instant", handler.CreateInstantOrder)
	api.POST("/orders/:id/execute", handler.ExecuteOrder)
	api.POST("/orders/:id/execute-early", handler.ExecuteEarly)
	api.GET("/orders", handler.ListOrders)
	api.GET("/orders/count", handler.CountOrders)
	api.GET("/orders/:id", handler.GetOrder)
	api.GET("/feeds/:symbol/price", handler.GetFeedPrice)

	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(raw)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestCreateTriggerOrderEndpoint(t *testing.T) {
	uc := &stubUsecase{order: pendingOrder()}
	router := newTestRouter(uc)

	resp := doJSON(t, router, http.MethodPost, "/api/v1/orders", httpdto.CreateTriggerOrderRequest{
		Payer:            payerAddr.Hex(),
		Receiver:         receiverAddr.Hex(),
		USDAmount:        1000,
		FeedID:           "ETH/USD",
		StopLossPrice:    95000,
		TakeProfitPrice:  105000,
		CollateralAmount: "1000000000000000000",
		ExpirySeconds:    3600,
	})

	require.Equal(t, http.StatusCreated, resp.Code)

	var body httpdto.OrderResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, uint64(1), body.ID)
	assert.Equal(t, "1000000000000000000", body.CollateralAmount)
	assert.False(t, body.Executed)
}

func TestCreateTriggerOrderRejectsBadAddress(t *testing.T) {
	uc := &stubUsecase{order: pendingOrder()}
	router := newTestRouter(uc)

	resp := doJSON(t, router, http.MethodPost, "/api/v1/orders", httpdto.CreateTriggerOrderRequest{
		Payer:            "not-an-address",
		Receiver:         receiverAddr.Hex(),
		USDAmount:        1000,
		FeedID:           "ETH/USD",
		CollateralAmount: "1",
	})

	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestExecuteEarlyPassesCaller(t *testing.T) {
	order := pendingOrder()
	now := time.Now()
	order.Executed = true
	order.ExecutedAt = &now
	order.ExecutedPrice = 90000
	order.PaidAmount = big.NewInt(5e16)
	order.RefundAmount = big.NewInt(95e16)

	uc := &stubUsecase{order: order}
	router := newTestRouter(uc)

	resp := doJSON(t, router, http.MethodPost, "/api/v1/orders/1/execute-early", httpdto.ExecuteEarlyRequest{
		Caller: payerAddr.Hex(),
	})

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, payerAddr, uc.lastCaller)

	var body httpdto.OrderResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.True(t, body.Executed)
	assert.Equal(t, "50000000000000000", body.PaidAmount)
	assert.Equal(t, int64(-10000), body.PriceDelta)
}

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		retryable  bool
	}{
		{name: "not found", err: domain.ErrOrderNotFound, wantStatus: http.StatusNotFound},
		{name: "already executed", err: domain.ErrAlreadyExecuted, wantStatus: http.StatusConflict},
		{name: "trigger not met", err: domain.ErrTriggerNotMet, wantStatus: http.StatusUnprocessableEntity, retryable: true},
		{name: "unauthorized", err: domain.ErrUnauthorized, wantStatus: http.StatusForbidden},
		{name: "expired", err: domain.ErrOrderExpired, wantStatus: http.StatusGone},
		{name: "invalid amount", err: domain.ErrInvalidAmount, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &stubUsecase{err: tt.err}
			router := newTestRouter(uc)

			resp := doJSON(t, router, http.MethodPost, "/api/v1/orders/1/execute", nil)
			require.Equal(t, tt.wantStatus, resp.Code)

			var body httpdto.ErrorResponse
			require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
			assert.Equal(t, tt.retryable, body.Retryable)
		})
	}
}

func TestGetOrderInvalidID(t *testing.T) {
	uc := &stubUsecase{order: pendingOrder()}
	router := newTestRouter(uc)

	resp := doJSON(t, router, http.MethodGet, "/api/v1/orders/abc", nil)
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestCountOrdersEndpoint(t *testing.T) {
	uc := &stubUsecase{}
	router := newTestRouter(uc)

	resp := doJSON(t, router, http.MethodGet, "/api/v1/orders/count", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var body httpdto.OrderCountResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, int64(7), body.Total)
}

func TestGetFeedPriceEndpoint(t *testing.T) {
	uc := &stubUsecase{}
	router := newTestRouter(uc)

	resp := doJSON(t, router, http.MethodGet, "/api/v1/feeds/ETH-USD/price", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var body httpdto.PriceResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, int64(200000), body.Price)
	assert.Equal(t, uint8(3), body.Decimals)
}
