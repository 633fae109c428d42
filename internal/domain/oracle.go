package domain

import (
	"context"
	"time"
)

// PriceQuote is one oracle observation for a feed. Price is fixed-point with
// Decimals fractional digits.
type PriceQuote struct {
	Price     int64
	Decimals  uint8
	Timestamp time.Time
}

// PriceFeed reads live prices from the external oracle registry. Every call
// re-fetches: no caching and no staleness check happen on this side, so
// correctness follows the registry's own freshness guarantees.
type PriceFeed interface {
	GetCurrentPrice(ctx context.Context, feedID string) (*PriceQuote, error)
}
