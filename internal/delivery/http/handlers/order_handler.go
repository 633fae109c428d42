package handlers

import (
	"errors"
	"math/big"
	"net/http"
	"strconv"
	"time"

	httpdto "github.com/SLAP-Solutions/pricelock-order-service/internal/delivery/http/dto/order"
	"github.com/SLAP-Solutions/pricelock-order-service/internal/domain"
	orderdto "github.com/SLAP-Solutions/pricelock-order-service/internal/usecase/dto/order"
	usecase "github.com/SLAP-Solutions/pricelock-order-service/internal/usecase/order"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	uc usecase.OrderUsecase
}

func NewOrderHandler(uc usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// CreateTriggerOrder handles POST /api/v1/orders
func (h *OrderHandler) CreateTriggerOrder(c *gin.Context) {
	var req httpdto.CreateTriggerOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: err.Error()})
		return
	}

	payer, ok := parseAddress(req.Payer)
	if !ok {
		c.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "invalid payer address"})
		return
	}
	receiver, ok := parseAddress(req.Receiver)
	if !ok {
		c.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "invalid receiver address"})
		return
	}
	collateral, ok := parseWei(req.CollateralAmount)
	if !ok {
		c.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "invalid collateral amount"})
		return
	}

	order, err := h.uc.CreateTriggerOrder(c.Request.Context(), &orderdto.CreateTriggerOrderInput{
		Payer:            payer,
		Receiver:         receiver,
		USDAmount:        req.USDAmount,
		FeedID:           req.FeedID,
		StopLossPrice:    req.StopLossPrice,
		TakeProfitPrice:  req.TakeProfitPrice,
		CollateralAmount: collateral,
		ExpiryOffset:     time.Duration(req.ExpirySeconds) * time.Second,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, httpdto.ToOrderResponse(order))
}

// CreateInstantOrder handles POST /api/v1/orders/instant
func (h *OrderHandler) CreateInstantOrder(c *gin.Context) {
	var req httpdto.CreateInstantOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: err.Error()})
		return
	}

	payer, ok := parseAddress(req.Payer)
	if !ok {
		c.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "invalid payer address"})
		return
	}
	receiver, ok := parseAddress(req.Receiver)
	if !ok {
		c.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "invalid receiver address"})
		return
	}
	collateral, ok := parseWei(req.CollateralAmount)
	if !ok {
		c.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "invalid collateral amount"})
		return
	}

	order, err := h.uc.CreateAndExecuteOrder(c.Request.Context(), &orderdto.CreateInstantOrderInput{
		Payer:            payer,
		Receiver:         receiver,
		USDAmount:        req.USDAmount,
		FeedID:           req.FeedID,
		CollateralAmount: collateral,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, httpdto.ToOrderResponse(order))
}

// ExecuteOrder handles POST /api/v1/orders/:id/execute
func (h *OrderHandler) ExecuteOrder(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	order, err := h.uc.EvaluateAndExecute(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.ToOrderResponse(order))
}

// ExecuteEarly handles POST /api/v1/orders/:id/execute-early
func (h *OrderHandler) ExecuteEarly(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	var req httpdto.ExecuteEarlyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: err.Error()})
		return
	}
	caller, ok := parseAddress(req.Caller)
	if !ok {
		c.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "invalid caller address"})
		return
	}

	order, err := h.uc.ExecuteEarly(c.Request.Context(), orderID, caller)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.ToOrderResponse(order))
}

// GetOrder handles GET /api/v1/orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	order, err := h.uc.GetOrderByID(orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.ToOrderResponse(order))
}

// ListOrders handles GET /api/v1/orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	orders, total, err := h.uc.ListOrders(page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := httpdto.OrderListResponse{
		Orders: make([]httpdto.OrderResponse, 0, len(orders)),
		Total:  total,
		Page:   page,
		Limit:  limit,
	}
	for _, order := range orders {
		resp.Orders = append(resp.Orders, httpdto.ToOrderResponse(order))
	}

	c.JSON(http.StatusOK, resp)
}

// CountOrders handles GET /api/v1/orders/count
func (h *OrderHandler) CountOrders(c *gin.Context) {
	total, err := h.uc.GetTotalOrders()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.OrderCountResponse{Total: total})
}

// GetFeedPrice handles GET /api/v1/feeds/:symbol/price
func (h *OrderHandler) GetFeedPrice(c *gin.Context) {
	feedID := c.Param("symbol")

	quote, err := h.uc.GetCurrentPrice(c.Request.Context(), feedID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.PriceResponse{
		FeedID:    feedID,
		Price:     quote.Price,
		Decimals:  quote.Decimals,
		Timestamp: quote.Timestamp,
	})
}

func parseOrderID(c *gin.Context) (uint64, bool) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "invalid order id"})
		return 0, false
	}
	return orderID, true
}

func parseAddress(raw string) (common.Address, bool) {
	if !common.IsHexAddress(raw) {
		return common.Address{}, false
	}
	return common.HexToAddress(raw), true
}

func parseWei(raw string) (*big.Int, bool) {
	amount, ok := new(big.Int).SetString(raw, 10)
	if !ok || amount.Sign() < 0 {
		return nil, false
	}
	return amount, true
}

// respondError maps domain sentinels onto HTTP statuses. TriggerNotMet is the
// one retryable condition; everything else is permanent from the caller's
// point of view.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, httpdto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrAlreadyExecuted), errors.Is(err, domain.ErrVaultConflict):
		c.JSON(http.StatusConflict, httpdto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrTriggerNotMet):
		c.JSON(http.StatusUnprocessableEntity, httpdto.ErrorResponse{Error: err.Error(), Retryable: true})
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusForbidden, httpdto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrOrderExpired):
		c.JSON(http.StatusGone, httpdto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrInvalidReceiver),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidCollateral):
		c.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: err.Error()})
	}
}
