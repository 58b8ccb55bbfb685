package book

import "fmt"

// Order is the book's mutable view of a single order. Only the matcher
// changes its fill state; the book owns it for its whole resting life.
type Order struct {
	id        OrderID
	orderType OrderType
	side      Side
	price     Price
	initial   Quantity
	remaining Quantity
}

func NewOrder(orderType OrderType, id OrderID, side Side, price Price, quantity Quantity) *Order {
	return &Order{
		id:        id,
		orderType: orderType,
		side:      side,
		price:     price,
		initial:   quantity,
		remaining: quantity,
	}
}

// NewMarketOrder carries InvalidPrice until admission resolves it against the
// opposite side.
func NewMarketOrder(id OrderID, side Side, quantity Quantity) *Order {
	return NewOrder(Market, id, side, InvalidPrice, quantity)
}

func (o *Order) ID() OrderID                 { return o.id }
func (o *Order) Type() OrderType             { return o.orderType }
func (o *Order) Side() Side                  { return o.side }
func (o *Order) Price() Price                { return o.price }
func (o *Order) InitialQuantity() Quantity   { return o.initial }
func (o *Order) RemainingQuantity() Quantity { return o.remaining }
func (o *Order) FilledQuantity() Quantity    { return o.initial - o.remaining }
func (o *Order) IsFilled() bool              { return o.remaining == 0 }

// Fill consumes quantity from the order. Overfilling is a matcher bug and
// returns ErrOverfill wrapped with the order id.
func (o *Order) Fill(quantity Quantity) error {
	if quantity > o.remaining {
		return fmt.Errorf("order %d: %w", o.id, ErrOverfill)
	}
	o.remaining -= quantity
	return nil
}

// ToGoodTillCancel rewrites an admitted Market order as a limit order at the
// resolved price.
func (o *Order) ToGoodTillCancel(price Price) {
	o.orderType = GoodTillCancel
	o.price = price
}

// Modify is a cancel-replace request. Side must match the resting order.
type Modify struct {
	OrderID  OrderID
	Side     Side
	Price    Price
	Quantity Quantity
}

// toOrder builds the replacement order, preserving the resting order's type.
func (m Modify) toOrder(orderType OrderType) *Order {
	return NewOrder(orderType, m.OrderID, m.Side, m.Price, m.Quantity)
}
