package http

import (
	"github.com/SLAP-Solutions/pricelock-order-service/internal/delivery/http/handlers"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(orderHandler *handlers.OrderHandler) *gin.Engine {
	router := gin.Default()

	api := router.Group("/api/v1")
	{
		api.POST("/orders", orderHandler.CreateTriggerOrder)
		api.POST("/orders/instant", orderHandler.CreateInstantOrder)
		api.POST("/orders/:id/execute", orderHandler.ExecuteOrder)
		api.POST("/orders/:id/execute-early", orderHandler.ExecuteEarly)
		api.GET("/orders", orderHandler.ListOrders)
		api.GET("/orders/count", orderHandler.CountOrders)
		api.GET("/orders/:id", orderHandler.GetOrder)
		api.GET("/feeds/:symbol/price", orderHandler.GetFeedPrice)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
