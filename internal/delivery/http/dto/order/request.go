package orderdto

type CreateTriggerOrderRequest struct {
	Payer            string `json:"payer" binding:"required"`
	Receiver         string `json:"receiver" binding:"required"`
	USDAmount        int64  `json:"usd_amount"`
	FeedID           string `json:"feed_id" binding:"required"`
	StopLossPrice    int64  `json:"stop_loss_price"`
	TakeProfitPrice  int64  `json:"take_profit_price"`
	CollateralAmount string `json:"collateral_amount" binding:"required"`
	ExpirySeconds    int64  `json:"expiry_seconds"`
}

type CreateInstantOrderRequest struct {
	Payer            string `json:"payer" binding:"required"`
	Receiver         string `json:"receiver" binding:"required"`
	USDAmount        int64  `json:"usd_amount"`
	FeedID           string `json:"feed_id" binding:"required"`
	CollateralAmount string `json:"collateral_amount" binding:"required"`
}

type ExecuteEarlyRequest struct {
	Caller string `json:"caller" binding:"required"`
}
