package riskrule

import "github.com/joripage/matchbook-dev/pkg/oms/model"

// RiskRule rejects an order before it reaches the book.
type RiskRule interface {
	Check(order *model.Order) error
}
