package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AddOrder is an admission request from a gateway. GatewayID is the client's
// id for the order (ClOrdID in FIX terms) and must be unique per session.
type AddOrder struct {
	GatewayID    string
	Account      string
	Symbol       string
	Exchange     string
	Type         OrderType
	Price        decimal.Decimal
	TimeInForce  OrderTimeInForce
	Side         OrderSide
	TransactTime time.Time
	Quantity     decimal.Decimal
}

// CancelOrder references the resting order by the client id that created or
// last replaced it.
type CancelOrder struct {
	GatewayID     string
	OrigGatewayID string
}

type ModifyOrder struct {
	GatewayID     string
	OrigGatewayID string
	NewPrice      decimal.Decimal
	NewQuantity   decimal.Decimal
}
