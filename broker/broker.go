package broker

import (
	"context"
	"time"
)

// Broker is the brokerage boundary: account state, positions, prices,
// order submission and the market clock.
type Broker interface {
	GetAccount(ctx context.Context) (Account, error)
	ListPositions(ctx context.Context) ([]Position, error)
	GetLatestPrice(ctx context.Context, symbol string) (float64, error)
	SubmitOrder(ctx context.Context, req OrderRequest) (Order, error)
	GetOrder(ctx context.Context, id string) (Order, error)
	GetClock(ctx context.Context) (Clock, error)
}

type Account struct {
	ID          string
	BuyingPower float64
	Cash        float64
	Equity      float64
}

// Position is the broker's authoritative view of one holding. Shares
// are signed: negative means short. CurrentPrice may be zero when the
// report does not carry a quote; callers refresh it themselves.
type Position struct {
	Symbol        string
	Shares        float64
	AvgEntryPrice float64
	CurrentPrice  float64
	UnrealizedPL  float64
}

type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

type OrderType string

const (
	TypeMarket OrderType = "market"
	TypeLimit  OrderType = "limit"
)

type TimeInForce string

const (
	TIFDay TimeInForce = "day"
	TIFGTC TimeInForce = "gtc"
)

type OrderStatus string

const (
	StatusNew             OrderStatus = "new"
	StatusAccepted        OrderStatus = "accepted"
	StatusPartiallyFilled OrderStatus = "partially_filled"
	StatusFilled          OrderStatus = "filled"
	StatusCanceled        OrderStatus = "canceled"
	StatusRejected        OrderStatus = "rejected"
)

// Bracket attaches stop-loss and take-profit legs to a primary order.
// The legs are submitted atomically with the primary.
type Bracket struct {
	TakeProfitLimit float64
	StopLossStop    float64
}

type OrderRequest struct {
	ClientOrderID string
	Symbol        string
	Qty           float64
	Side          Side
	Type          OrderType
	LimitPrice    float64 // required for TypeLimit
	TimeInForce   TimeInForce
	Bracket       *Bracket
}

// Order is a brokerage order handle. ID is opaque.
type Order struct {
	ID             string
	ClientOrderID  string
	Symbol         string
	Qty            float64
	Side           Side
	Status         OrderStatus
	FilledAvgPrice float64
	SubmittedAt    time.Time
}

// Filled reports whether the order has fully executed.
func (o Order) Filled() bool { return o.Status == StatusFilled }

// Terminal reports whether the order can no longer fill.
func (o Order) Terminal() bool {
	return o.Status == StatusFilled || o.Status == StatusCanceled || o.Status == StatusRejected
}

type Clock struct {
	Timestamp time.Time
	IsOpen    bool
	NextOpen  time.Time
	NextClose time.Time
}
