package orderdto

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

type CreateTriggerOrderInput struct {
	Payer            common.Address
	Receiver         common.Address
	USDAmount        int64
	FeedID           string
	StopLossPrice    int64
	TakeProfitPrice  int64
	CollateralAmount *big.Int
	ExpiryOffset     time.Duration
}

type CreateInstantOrderInput struct {
	Payer            common.Address
	Receiver         common.Address
	USDAmount        int64
	FeedID           string
	CollateralAmount *big.Int
}
