// Package alpaca implements the broker interface against the Alpaca
// trading REST API.
package alpaca

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rustyeddy/smarttrader/broker"
)

const (
	PaperURL = "https://paper-api.alpaca.markets"
	DataURL  = "https://data.alpaca.markets"
)

type Client struct {
	BaseURL string // e.g. https://paper-api.alpaca.markets
	DataURL string // market data host; defaults to DataURL
	Key     string
	Secret  string
	HTTP    *http.Client
}

// BaseURL maps an environment name to the trading API host. Live
// trading is deliberately refused.
func BaseURL(env string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "paper", "practice", "demo":
		return PaperURL, nil
	case "live":
		return "", errors.New("live trading not allowed")
	default:
		return "", fmt.Errorf("unknown alpaca env %q (want paper|live)", env)
	}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

// do issues a request and decodes the JSON response into out. Non-2xx
// responses become a *broker.StatusError carrying the body.
func (c *Client) do(ctx context.Context, method, url string, body, out any) error {
	if c.Key == "" || c.Secret == "" {
		return errors.New("alpaca: missing credentials")
	}

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, rdr)
	if err != nil {
		return err
	}
	req.Header.Set("APCA-API-KEY-ID", c.Key)
	req.Header.Set("APCA-API-SECRET-KEY", c.Secret)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		return &broker.StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) tradingURL(path string) string {
	return strings.TrimSuffix(c.BaseURL, "/") + path
}

func (c *Client) dataHostURL(path string) string {
	host := c.DataURL
	if host == "" {
		host = DataURL
	}
	return strings.TrimSuffix(host, "/") + path
}
