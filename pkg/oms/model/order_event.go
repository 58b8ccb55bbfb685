package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderEvent is an immutable snapshot of an order after one state change.
// The event stream is the source of truth the worker persists.
type OrderEvent struct {
	EventID       string `gorm:"primaryKey"`
	OrderID       string `gorm:"index"`
	GatewayID     string
	OrigGatewayID string

	Symbol   string
	Side     OrderSide
	Status   OrderStatus
	ExecType OrderExecType

	Price          decimal.Decimal `gorm:"type:numeric"`
	Quantity       decimal.Decimal `gorm:"type:numeric"`
	CumQuantity    decimal.Decimal `gorm:"type:numeric"`
	LeavesQuantity decimal.Decimal `gorm:"type:numeric"`
	LastPrice      decimal.Decimal `gorm:"type:numeric"`
	LastQuantity   decimal.Decimal `gorm:"type:numeric"`

	Timestamp time.Time
}

func (OrderEvent) TableName() string { return "order_events" }

// NewOrderEvent snapshots the order. The event id folds in the timestamp so
// repeated fills on one order stay distinct.
func NewOrderEvent(order Order, origGatewayID string, ts time.Time) *OrderEvent {
	return &OrderEvent{
		EventID:        NewEventID(order.OrderID, order.ExecType, ts),
		OrderID:        order.OrderID,
		GatewayID:      order.GatewayID,
		OrigGatewayID:  origGatewayID,
		Symbol:         order.Symbol,
		Side:           order.Side,
		Status:         order.Status,
		ExecType:       order.ExecType,
		Price:          order.Price,
		Quantity:       order.Quantity,
		CumQuantity:    order.CumQuantity,
		LeavesQuantity: order.LeavesQuantity,
		LastPrice:      order.LastPrice,
		LastQuantity:   order.LastQuantity,
		Timestamp:      ts,
	}
}

func NewEventID(orderID string, execType OrderExecType, ts time.Time) string {
	return fmt.Sprintf("%s-%s-%d", orderID, execType, ts.UnixNano())
}
