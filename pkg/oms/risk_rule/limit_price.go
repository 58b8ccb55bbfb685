package riskrule

import (
	"fmt"

	"github.com/joripage/matchbook-dev/pkg/oms/model"
	"github.com/shopspring/decimal"
)

type PriceBand struct {
	Ceil  decimal.Decimal
	Floor decimal.Decimal
}

// LimitPriceRule rejects limit prices outside the symbol's daily band.
// Symbols without a band are unrestricted.
type LimitPriceRule struct {
	prices map[string]PriceBand
}

func NewLimitPriceRule(prices map[string]PriceBand) *LimitPriceRule {
	return &LimitPriceRule{prices: prices}
}

func (r *LimitPriceRule) Check(order *model.Order) error {
	if order.Type == model.OrderTypeMarket {
		return nil
	}

	band, ok := r.prices[order.Symbol]
	if !ok {
		return nil
	}
	if order.Price.GreaterThan(band.Ceil) || order.Price.LessThan(band.Floor) {
		return fmt.Errorf("price limit violation: %s outside [%s, %s]", order.Price, band.Floor, band.Ceil)
	}
	return nil
}
