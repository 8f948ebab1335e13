// Package quotes resolves current per-unit prices for crypto holdings from
// a CoinGecko-style feed. One request per holding, sequentially; quotes are
// never cached between calls.
package quotes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"portfel/internal/core"
	"portfel/internal/log"
)

var (
	// ErrFeedUnavailable covers network errors and timeouts.
	ErrFeedUnavailable = errors.New("price feed unavailable")

	// ErrFeedStatus means the feed answered with a non-2xx status.
	ErrFeedStatus = errors.New("price feed rejected request")

	// ErrFeedDecode means the response lacked the expected price field.
	ErrFeedDecode = errors.New("malformed price feed response")
)

// Sentinel is the price reported when no quote could be fetched. Derived
// values computed from it are wrong on purpose: the original app displays
// them as-is on transient failure, and that behavior is kept.
var Sentinel = decimal.NewFromInt(-1)

// DefaultCoins maps lowercase holding names to feed identifiers. Note xrp
// trades under "ripple" on the feed.
func DefaultCoins() map[string]string {
	return map[string]string{
		"bitcoin":  "bitcoin",
		"ethereum": "ethereum",
		"xrp":      "ripple",
		"dogecoin": "dogecoin",
	}
}

type Client struct {
	baseURL  string
	apiKey   string
	currency string
	coins    map[string]string
	http     *http.Client
	logger   *log.Logger
}

// NewClient builds a quote client. A nil coins table means DefaultCoins.
func NewClient(baseURL, apiKey, currency string, coins map[string]string, timeout time.Duration, logger *log.Logger) *Client {
	if coins == nil {
		coins = DefaultCoins()
	}
	return &Client{
		baseURL:  baseURL,
		apiKey:   apiKey,
		currency: currency,
		coins:    coins,
		http:     &http.Client{Timeout: timeout},
		logger:   logger.WithComponent(log.ComponentQuotes),
	}
}

// Price fetches the current quote for the named coin. An unmapped name
// yields the sentinel and core.ErrUnsupportedCoin without any network
// call; feed failures yield the sentinel and a classified error.
func (c *Client) Price(ctx context.Context, name string) (decimal.Decimal, error) {
	id, ok := c.coins[strings.ToLower(name)]
	if !ok {
		return Sentinel, fmt.Errorf("%w: %s", core.ErrUnsupportedCoin, name)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v3/coins/"+id, nil)
	if err != nil {
		return Sentinel, fmt.Errorf("%w: %v", ErrFeedUnavailable, err)
	}
	if c.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Sentinel, fmt.Errorf("%w: %v", ErrFeedUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return Sentinel, fmt.Errorf("%w: status %d", ErrFeedStatus, resp.StatusCode)
	}

	var payload struct {
		MarketData struct {
			CurrentPrice map[string]decimal.Decimal `json:"current_price"`
		} `json:"market_data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Sentinel, fmt.Errorf("%w: %v", ErrFeedDecode, err)
	}

	price, ok := payload.MarketData.CurrentPrice[c.currency]
	if !ok {
		return Sentinel, fmt.Errorf("%w: no %q price", ErrFeedDecode, c.currency)
	}

	c.logger.DebugContext(ctx, "Quote fetched",
		log.FieldCoin, id, "price", price)
	return price, nil
}

// Enrich pairs every holding with its current quote, one sequential fetch
// per holding. Lookups that fail keep the sentinel price; the failure is
// logged but not surfaced, matching the observed display behavior.
func (c *Client) Enrich(ctx context.Context, holdings []core.Holding) []core.HoldingValue {
	values := make([]core.HoldingValue, 0, len(holdings))
	for _, h := range holdings {
		price, err := c.Price(ctx, h.Name)
		if err != nil {
			c.logger.WarnContext(ctx, "Quote lookup failed",
				log.FieldCoin, h.Name, log.FieldError, err)
		}
		values = append(values, core.HoldingValue{Holding: h, CurrentPrice: price})
	}
	return values
}
