package alpaca

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rustyeddy/smarttrader/broker"
)

// Alpaca encodes most numeric fields as JSON strings.
type number string

func (n number) float() float64 {
	v, _ := strconv.ParseFloat(string(n), 64)
	return v
}

type accountResp struct {
	ID          string `json:"id"`
	BuyingPower number `json:"buying_power"`
	Cash        number `json:"cash"`
	Equity      number `json:"equity"`
}

func (c *Client) GetAccount(ctx context.Context) (broker.Account, error) {
	var ar accountResp
	if err := c.do(ctx, http.MethodGet, c.tradingURL("/v2/account"), nil, &ar); err != nil {
		return broker.Account{}, fmt.Errorf("get account: %w", err)
	}
	return broker.Account{
		ID:          ar.ID,
		BuyingPower: ar.BuyingPower.float(),
		Cash:        ar.Cash.float(),
		Equity:      ar.Equity.float(),
	}, nil
}

type positionResp struct {
	Symbol        string `json:"symbol"`
	Qty           number `json:"qty"`
	Side          string `json:"side"` // "long" or "short"
	AvgEntryPrice number `json:"avg_entry_price"`
	CurrentPrice  number `json:"current_price"`
	UnrealizedPL  number `json:"unrealized_pl"`
}

func (c *Client) ListPositions(ctx context.Context) ([]broker.Position, error) {
	var prs []positionResp
	if err := c.do(ctx, http.MethodGet, c.tradingURL("/v2/positions"), nil, &prs); err != nil {
		return nil, fmt.Errorf("list positions: %w", err)
	}

	out := make([]broker.Position, 0, len(prs))
	for _, pr := range prs {
		shares := pr.Qty.float()
		// Qty is reported unsigned with a side field; we keep signed shares.
		if pr.Side == "short" && shares > 0 {
			shares = -shares
		}
		out = append(out, broker.Position{
			Symbol:        pr.Symbol,
			Shares:        shares,
			AvgEntryPrice: pr.AvgEntryPrice.float(),
			CurrentPrice:  pr.CurrentPrice.float(),
			UnrealizedPL:  pr.UnrealizedPL.float(),
		})
	}
	return out, nil
}

type latestTradeResp struct {
	Trade struct {
		Price float64 `json:"p"`
	} `json:"trade"`
}

func (c *Client) GetLatestPrice(ctx context.Context, symbol string) (float64, error) {
	url := c.dataHostURL("/v2/stocks/" + symbol + "/trades/latest")
	var tr latestTradeResp
	if err := c.do(ctx, http.MethodGet, url, nil, &tr); err != nil {
		return 0, fmt.Errorf("latest price %s: %w", symbol, err)
	}
	return tr.Trade.Price, nil
}

type bracketLeg struct {
	LimitPrice string `json:"limit_price,omitempty"`
	StopPrice  string `json:"stop_price,omitempty"`
}

type orderReq struct {
	Symbol        string      `json:"symbol"`
	Qty           string      `json:"qty"`
	Side          string      `json:"side"`
	Type          string      `json:"type"`
	LimitPrice    string      `json:"limit_price,omitempty"`
	TimeInForce   string      `json:"time_in_force"`
	ClientOrderID string      `json:"client_order_id,omitempty"`
	OrderClass    string      `json:"order_class,omitempty"`
	TakeProfit    *bracketLeg `json:"take_profit,omitempty"`
	StopLoss      *bracketLeg `json:"stop_loss,omitempty"`
}

type orderResp struct {
	ID             string `json:"id"`
	ClientOrderID  string `json:"client_order_id"`
	Symbol         string `json:"symbol"`
	Qty            number `json:"qty"`
	Side           string `json:"side"`
	Status         string `json:"status"`
	FilledAvgPrice number `json:"filled_avg_price"`
	SubmittedAt    string `json:"submitted_at"`
}

func (r orderResp) order() broker.Order {
	submitted, _ := time.Parse(time.RFC3339Nano, r.SubmittedAt)
	return broker.Order{
		ID:             r.ID,
		ClientOrderID:  r.ClientOrderID,
		Symbol:         r.Symbol,
		Qty:            r.Qty.float(),
		Side:           broker.Side(r.Side),
		Status:         broker.OrderStatus(r.Status),
		FilledAvgPrice: r.FilledAvgPrice.float(),
		SubmittedAt:    submitted,
	}
}

func (c *Client) SubmitOrder(ctx context.Context, req broker.OrderRequest) (broker.Order, error) {
	body := orderReq{
		Symbol:        req.Symbol,
		Qty:           strconv.FormatFloat(req.Qty, 'f', -1, 64),
		Side:          string(req.Side),
		Type:          string(req.Type),
		TimeInForce:   string(req.TimeInForce),
		ClientOrderID: req.ClientOrderID,
	}
	if req.Type == broker.TypeLimit {
		body.LimitPrice = strconv.FormatFloat(req.LimitPrice, 'f', 2, 64)
	}
	if req.Bracket != nil {
		body.OrderClass = "bracket"
		body.TakeProfit = &bracketLeg{LimitPrice: strconv.FormatFloat(req.Bracket.TakeProfitLimit, 'f', 2, 64)}
		body.StopLoss = &bracketLeg{StopPrice: strconv.FormatFloat(req.Bracket.StopLossStop, 'f', 2, 64)}
	}

	var or orderResp
	if err := c.do(ctx, http.MethodPost, c.tradingURL("/v2/orders"), body, &or); err != nil {
		return broker.Order{}, fmt.Errorf("submit order %s %s: %w", req.Side, req.Symbol, err)
	}
	return or.order(), nil
}

func (c *Client) GetOrder(ctx context.Context, id string) (broker.Order, error) {
	var or orderResp
	if err := c.do(ctx, http.MethodGet, c.tradingURL("/v2/orders/"+id), nil, &or); err != nil {
		return broker.Order{}, fmt.Errorf("get order %s: %w", id, err)
	}
	return or.order(), nil
}

type clockResp struct {
	Timestamp string `json:"timestamp"`
	IsOpen    bool   `json:"is_open"`
	NextOpen  string `json:"next_open"`
	NextClose string `json:"next_close"`
}

func (c *Client) GetClock(ctx context.Context) (broker.Clock, error) {
	var cr clockResp
	if err := c.do(ctx, http.MethodGet, c.tradingURL("/v2/clock"), nil, &cr); err != nil {
		return broker.Clock{}, fmt.Errorf("get clock: %w", err)
	}

	ts, _ := time.Parse(time.RFC3339Nano, cr.Timestamp)
	no, _ := time.Parse(time.RFC3339Nano, cr.NextOpen)
	nc, _ := time.Parse(time.RFC3339Nano, cr.NextClose)
	return broker.Clock{Timestamp: ts, IsOpen: cr.IsOpen, NextOpen: no, NextClose: nc}, nil
}
