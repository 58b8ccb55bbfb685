package riskrule

import (
	"fmt"

	"github.com/joripage/matchbook-dev/pkg/oms/model"
	"github.com/shopspring/decimal"
)

// MaxQuantityRule caps single-order size. Zero means unlimited.
type MaxQuantityRule struct {
	max decimal.Decimal
}

func NewMaxQuantityRule(max decimal.Decimal) *MaxQuantityRule {
	return &MaxQuantityRule{max: max}
}

func (r *MaxQuantityRule) Check(order *model.Order) error {
	if r.max.IsZero() {
		return nil
	}
	if order.Quantity.GreaterThan(r.max) {
		return fmt.Errorf("quantity %s exceeds max %s", order.Quantity, r.max)
	}
	return nil
}
