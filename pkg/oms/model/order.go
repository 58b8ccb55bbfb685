package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusNew             OrderStatus = "New"
	OrderStatusPartiallyFilled OrderStatus = "PartiallyFilled"
	OrderStatusFilled          OrderStatus = "Filled"
	OrderStatusDoneForDay      OrderStatus = "DoneForDay"
	OrderStatusCanceled        OrderStatus = "Canceled"
	OrderStatusReplaced        OrderStatus = "Replaced"
	OrderStatusRejected        OrderStatus = "Rejected"
	OrderStatusPendingNew      OrderStatus = "PendingNew"
	OrderStatusExpired         OrderStatus = "Expired"
)

type OrderExecType string

const (
	ExecTypeNew      OrderExecType = "New"
	ExecTypeCanceled OrderExecType = "Canceled"
	ExecTypeReplaced OrderExecType = "Replaced"
	ExecTypeRejected OrderExecType = "Rejected"
	ExecTypeExpired  OrderExecType = "Expired"
	ExecTypeTrade    OrderExecType = "Trade"
)

type OrderSide string

const (
	OrderSideBuy  OrderSide = "BUY"
	OrderSideSell OrderSide = "SELL"
)

type OrderType string

const (
	OrderTypeLimit  OrderType = "LIMIT"
	OrderTypeMarket OrderType = "MARKET"
)

type OrderTimeInForce string

const (
	OrderTimeInForceDAY OrderTimeInForce = "DAY"
	OrderTimeInForceIOC OrderTimeInForce = "IOC"
	OrderTimeInForceFOK OrderTimeInForce = "FOK"
	OrderTimeInForceGTC OrderTimeInForce = "GTC"
)

// Order is the service-level record of one client order. Quantities and
// prices stay decimal here; the matching core speaks ticks.
type Order struct {
	ID int64 `gorm:"primaryKey;autoIncrement"`

	// init info
	Symbol       string
	Side         OrderSide
	Type         OrderType
	TimeInForce  OrderTimeInForce
	Price        decimal.Decimal `gorm:"type:numeric"`
	Quantity     decimal.Decimal `gorm:"type:numeric"`
	Account      string
	Exchange     string
	TransactTime time.Time

	// calculated info
	OrderID        string `gorm:"uniqueIndex"`
	GatewayID      string
	Status         OrderStatus
	ExecType       OrderExecType
	CumQuantity    decimal.Decimal `gorm:"type:numeric"`
	LeavesQuantity decimal.Decimal `gorm:"type:numeric"`
	LastQuantity   decimal.Decimal `gorm:"type:numeric"`
	LastPrice      decimal.Decimal `gorm:"type:numeric"`
	AvgPrice       decimal.Decimal `gorm:"type:numeric"`
}

func (Order) TableName() string { return "orders" }

// UpdateAddOrder initializes the record from an admission request.
func (o *Order) UpdateAddOrder(add *AddOrder, orderID string) {
	o.Symbol = add.Symbol
	o.Side = add.Side
	o.Type = add.Type
	o.TimeInForce = add.TimeInForce
	o.Price = add.Price
	o.Quantity = add.Quantity
	o.Account = add.Account
	o.Exchange = add.Exchange
	o.TransactTime = add.TransactTime

	o.OrderID = orderID
	o.GatewayID = add.GatewayID
	o.Status = OrderStatusPendingNew
	o.ExecType = ExecTypeNew
	o.CumQuantity = decimal.Zero
	o.LeavesQuantity = add.Quantity
}

// Ack moves a pending order to New once the book accepted it.
func (o *Order) Ack() {
	o.Status = OrderStatusNew
	o.ExecType = ExecTypeNew
}

// Reject marks the order refused before it could rest or trade.
func (o *Order) Reject() {
	o.Status = OrderStatusRejected
	o.ExecType = ExecTypeRejected
	o.LeavesQuantity = decimal.Zero
}

// Expire marks an unfilled remainder cancelled by the venue. The OMS calls
// it for immediate-or-cancel remainders; the book's good-for-day pruner
// cancels orders without reporting back, so day purges do not land here.
func (o *Order) Expire() {
	o.Status = OrderStatusExpired
	o.ExecType = ExecTypeExpired
	o.LeavesQuantity = decimal.Zero
}

func (o *Order) UpdateCancelOrder(cancel *CancelOrder) {
	o.GatewayID = cancel.GatewayID
	o.Status = OrderStatusCanceled
	o.ExecType = ExecTypeCanceled
	o.LeavesQuantity = decimal.Zero
}

func (o *Order) UpdateModifyOrder(modify *ModifyOrder) {
	o.GatewayID = modify.GatewayID
	o.Price = modify.NewPrice
	o.Quantity = modify.NewQuantity
	o.Status = OrderStatusReplaced
	o.ExecType = ExecTypeReplaced
	o.LeavesQuantity = modify.NewQuantity.Sub(o.CumQuantity)
	if o.LeavesQuantity.IsNegative() {
		o.LeavesQuantity = decimal.Zero
	}
}

// UpdateTrade applies one fill leg.
func (o *Order) UpdateTrade(price, quantity decimal.Decimal) {
	notional := o.AvgPrice.Mul(o.CumQuantity).Add(price.Mul(quantity))

	o.LastPrice = price
	o.LastQuantity = quantity
	o.CumQuantity = o.CumQuantity.Add(quantity)
	o.LeavesQuantity = o.Quantity.Sub(o.CumQuantity)
	o.AvgPrice = notional.Div(o.CumQuantity)

	o.ExecType = ExecTypeTrade
	if o.LeavesQuantity.IsPositive() {
		o.Status = OrderStatusPartiallyFilled
	} else {
		o.LeavesQuantity = decimal.Zero
		o.Status = OrderStatusFilled
	}
}

func (o *Order) CanCancel() bool {
	switch o.Status {
	case OrderStatusNew, OrderStatusPartiallyFilled, OrderStatusReplaced:
		return true
	}
	return false
}

func (o *Order) CanModify() bool {
	switch o.Status {
	case OrderStatusNew, OrderStatusPartiallyFilled, OrderStatusReplaced:
		return true
	}
	return false
}

// IsEnd reports a terminal status; the cleaner drops these records.
func (o *Order) IsEnd() bool {
	switch o.Status {
	case OrderStatusFilled, OrderStatusCanceled, OrderStatusRejected,
		OrderStatusExpired, OrderStatusDoneForDay:
		return true
	}
	return false
}
