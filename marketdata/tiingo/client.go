// Package tiingo fetches equity bars from the Tiingo REST API.
package tiingo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rustyeddy/smarttrader/market"
	"github.com/rustyeddy/smarttrader/ratelimit"
)

// BaseURL is Tiingo's public API host.
const BaseURL = "https://api.tiingo.com"

// chunkDays bounds one intraday request. Tiingo caps the rows a single
// IEX query may return, so longer ranges are fetched in pieces.
const chunkDays = 5

// Client is a rate-limited Tiingo API client implementing
// marketdata.Source.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *ratelimit.Limiter
}

func NewClient(token string, limiter *ratelimit.Limiter) *Client {
	return &Client{
		baseURL: BaseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: limiter,
	}
}

// NewClientURL is NewClient against a non-default host, for tests.
func NewClientURL(baseURL, token string, limiter *ratelimit.Limiter) *Client {
	c := NewClient(token, limiter)
	c.baseURL = baseURL
	return c
}

// apiBar is one row of either the IEX intraday or the daily endpoint.
type apiBar struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// Intraday fetches minute bars for [from, to], chunking long ranges
// into separate requests and reassembling them in time order.
func (c *Client) Intraday(ctx context.Context, symbol string, from, to time.Time) (*market.BarSet, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}

	var all []market.Bar
	for start := from; start.Before(to); start = start.AddDate(0, 0, chunkDays) {
		end := start.AddDate(0, 0, chunkDays)
		if end.After(to) {
			end = to
		}

		params := url.Values{}
		params.Set("startDate", start.Format("2006-01-02"))
		params.Set("endDate", end.Format("2006-01-02"))
		params.Set("resampleFreq", "1min")
		params.Set("columns", "open,high,low,close,volume")

		apiURL := fmt.Sprintf("%s/iex/%s/prices?%s", c.baseURL, symbol, params.Encode())
		rows, err := c.fetch(ctx, apiURL)
		if err != nil {
			return nil, fmt.Errorf("intraday %s: %w", symbol, err)
		}
		bars, err := toBars(symbol, rows)
		if err != nil {
			return nil, fmt.Errorf("intraday %s: %w", symbol, err)
		}
		all = append(all, bars...)
	}

	if len(all) == 0 {
		return nil, fmt.Errorf("intraday %s [%s, %s]: %w",
			symbol, from.Format("2006-01-02"), to.Format("2006-01-02"), market.ErrDataUnavailable)
	}

	set := market.NewBarSet(symbol, all)
	set.Sort()
	return set, nil
}

// Daily fetches end-of-day bars for [from, to].
func (c *Client) Daily(ctx context.Context, symbol string, from, to time.Time) (*market.BarSet, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}

	params := url.Values{}
	params.Set("startDate", from.Format("2006-01-02"))
	params.Set("endDate", to.Format("2006-01-02"))

	apiURL := fmt.Sprintf("%s/tiingo/daily/%s/prices?%s", c.baseURL, symbol, params.Encode())
	rows, err := c.fetch(ctx, apiURL)
	if err != nil {
		return nil, fmt.Errorf("daily %s: %w", symbol, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("daily %s [%s, %s]: %w",
			symbol, from.Format("2006-01-02"), to.Format("2006-01-02"), market.ErrDataUnavailable)
	}

	bars, err := toBars(symbol, rows)
	if err != nil {
		return nil, fmt.Errorf("daily %s: %w", symbol, err)
	}

	set := market.NewBarSet(symbol, bars)
	set.Sort()
	return set, nil
}

func (c *Client) fetch(ctx context.Context, apiURL string) ([]apiBar, error) {
	if c.limiter != nil {
		if err := c.limiter.Await(ctx); err != nil {
			return nil, err
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, "GET", apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Token "+c.token)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, market.ErrDataUnavailable
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var rows []apiBar
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return rows, nil
}

func toBars(symbol string, rows []apiBar) ([]market.Bar, error) {
	bars := make([]market.Bar, 0, len(rows))
	for _, r := range rows {
		t, err := time.Parse(time.RFC3339, r.Date)
		if err != nil {
			return nil, fmt.Errorf("parse time %s: %w", r.Date, err)
		}
		bars = append(bars, market.Bar{
			Symbol: symbol,
			Time:   t,
			Open:   r.Open,
			High:   r.High,
			Low:    r.Low,
			Close:  r.Close,
			Volume: r.Volume,
		})
	}
	return bars, nil
}
