package riskrule

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joripage/matchbook-dev/pkg/oms/model"
	"github.com/shopspring/decimal"
)

type tickSizeBand struct {
	MaxPrice decimal.Decimal `json:"maxPrice"` // zero = no upper bound
	Step     decimal.Decimal `json:"step"`
}

// TickSizeRule validates that limit prices land on the exchange's price
// grid. Bands are ordered by MaxPrice; the first band covering the price
// decides the step.
type TickSizeRule struct {
	Config map[string][]tickSizeBand
}

func NewTickSizeRuleFromFile(path string) (*TickSizeRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg map[string][]tickSizeBand
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &TickSizeRule{Config: cfg}, nil
}

func (r *TickSizeRule) Check(order *model.Order) error {
	if order.Type == model.OrderTypeMarket {
		return nil
	}

	bands, ok := r.Config[order.Exchange]
	if !ok { // no config -> no rule
		return nil
	}

	for _, band := range bands {
		if band.MaxPrice.IsZero() || order.Price.LessThanOrEqual(band.MaxPrice) {
			if !order.Price.Mod(band.Step).IsZero() {
				return fmt.Errorf("invalid tick size: price %s not a multiple of %s", order.Price, band.Step)
			}
			return nil
		}
	}

	return nil
}
