package oms

import (
	"math"

	"github.com/joripage/matchbook-dev/pkg/book"
	"github.com/joripage/matchbook-dev/pkg/oms/model"
	"github.com/shopspring/decimal"
)

// toBookOrder maps a service order onto the matching core. Decimal prices
// become signed tick counts at the configured scale; quantities must be
// positive integers.
func (s *OMS) toBookOrder(order *model.Order, bookID book.OrderID) (*book.Order, error) {
	quantity, err := s.toBookQuantity(order.LeavesQuantity)
	if err != nil {
		return nil, err
	}

	side := book.Buy
	if order.Side == model.OrderSideSell {
		side = book.Sell
	}

	if order.Type == model.OrderTypeMarket {
		return book.NewMarketOrder(bookID, side, quantity), nil
	}

	price, err := s.toBookPrice(order.Price)
	if err != nil {
		return nil, err
	}
	return book.NewOrder(orderTypeFor(order.TimeInForce), bookID, side, price, quantity), nil
}

// orderTypeFor maps FIX time-in-force onto the book's order types. DAY
// orders expire at the daily cutoff, IOC fills what crosses now, FOK is all
// or nothing.
func orderTypeFor(tif model.OrderTimeInForce) book.OrderType {
	switch tif {
	case model.OrderTimeInForceIOC:
		return book.FillAndKill
	case model.OrderTimeInForceFOK:
		return book.FillOrKill
	case model.OrderTimeInForceDAY:
		return book.GoodForDay
	default:
		return book.GoodTillCancel
	}
}

func (s *OMS) toBookPrice(price decimal.Decimal) (book.Price, error) {
	ticks := price.Shift(s.cfg.PriceScale)
	if !ticks.IsInteger() {
		return 0, errInvalidPrice
	}
	v := ticks.IntPart()
	if v < math.MinInt32+1 || v > math.MaxInt32 {
		return 0, errInvalidPrice
	}
	return book.Price(v), nil
}

func (s *OMS) toBookQuantity(quantity decimal.Decimal) (book.Quantity, error) {
	if !quantity.IsInteger() || !quantity.IsPositive() {
		return 0, errInvalidQuantity
	}
	v := quantity.IntPart()
	if v > math.MaxUint32 {
		return 0, errInvalidQuantity
	}
	return book.Quantity(v), nil
}

func (s *OMS) fromBookPrice(price book.Price) decimal.Decimal {
	return decimal.New(int64(price), -s.cfg.PriceScale)
}

func fromBookQuantity(quantity book.Quantity) decimal.Decimal {
	return decimal.NewFromInt(int64(quantity))
}
