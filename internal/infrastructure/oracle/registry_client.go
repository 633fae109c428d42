package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/SLAP-Solutions/pricelock-order-service/internal/domain"
)

// HTTPRegistryClient reads prices from the external oracle registry. Feed ids
// are opaque to this client: they are passed through verbatim and looked up
// byte-exact on the registry side. No caching, no staleness check.
type HTTPRegistryClient struct {
	Address string
	client  *http.Client
}

func NewHTTPRegistryClient(address string) *HTTPRegistryClient {
	return &HTTPRegistryClient{
		Address: address,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

type priceResponse struct {
	FeedID    string `json:"feed_id"`
	Price     int64  `json:"price"`
	Decimals  uint8  `json:"decimals"`
	Timestamp int64  `json:"timestamp"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *HTTPRegistryClient) GetCurrentPrice(ctx context.Context, feedID string) (*domain.PriceQuote, error) {
	endpoint := fmt.Sprintf("%s/feeds/%s/latest", c.Address, url.PathEscape(feedID))
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	response, err := c.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("oracle registry request: %w", err)
	}
	defer response.Body.Close()
	responseBodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		var price priceResponse
		if err := json.Unmarshal(responseBodyBytes, &price); err != nil {
			return nil, fmt.Errorf("decode oracle response: %w", err)
		}
		return &domain.PriceQuote{
			Price:     price.Price,
			Decimals:  price.Decimals,
			Timestamp: time.Unix(price.Timestamp, 0),
		}, nil
	}

	var errResp errorResponse
	if err := json.Unmarshal(responseBodyBytes, &errResp); err != nil || errResp.Error == "" {
		return nil, fmt.Errorf("oracle registry returned status %d", response.StatusCode)
	}
	return nil, errors.New(errResp.Error)
}
