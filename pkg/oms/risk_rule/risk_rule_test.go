package riskrule

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/joripage/matchbook-dev/pkg/oms/model"
)

func limitOrder(symbol, exchange string, price, qty int64) *model.Order {
	return &model.Order{
		Symbol:   symbol,
		Exchange: exchange,
		Type:     model.OrderTypeLimit,
		Price:    decimal.NewFromInt(price),
		Quantity: decimal.NewFromInt(qty),
	}
}

func TestTickSizeRule(t *testing.T) {
	rule := &TickSizeRule{Config: map[string][]tickSizeBand{
		"HOSE": {
			{MaxPrice: decimal.NewFromInt(10000), Step: decimal.NewFromInt(10)},
			{MaxPrice: decimal.Zero, Step: decimal.NewFromInt(50)},
		},
	}}

	if err := rule.Check(limitOrder("VND", "HOSE", 9990, 100)); err != nil {
		t.Errorf("on-grid price in first band rejected: %v", err)
	}
	if err := rule.Check(limitOrder("VND", "HOSE", 9995, 100)); err == nil {
		t.Error("off-grid price in first band accepted")
	}
	if err := rule.Check(limitOrder("VND", "HOSE", 15050, 100)); err != nil {
		t.Errorf("on-grid price in open band rejected: %v", err)
	}
	if err := rule.Check(limitOrder("VND", "HOSE", 15060, 100)); err == nil {
		t.Error("off-grid price in open band accepted")
	}
	if err := rule.Check(limitOrder("VND", "HNX", 15060, 100)); err != nil {
		t.Errorf("exchange without config rejected: %v", err)
	}

	market := limitOrder("VND", "HOSE", 0, 100)
	market.Type = model.OrderTypeMarket
	if err := rule.Check(market); err != nil {
		t.Errorf("market order rejected: %v", err)
	}
}

func TestLimitPriceRule(t *testing.T) {
	rule := NewLimitPriceRule(map[string]PriceBand{
		"VND": {Floor: decimal.NewFromInt(13000), Ceil: decimal.NewFromInt(16000)},
	})

	if err := rule.Check(limitOrder("VND", "HOSE", 15600, 100)); err != nil {
		t.Errorf("in-band price rejected: %v", err)
	}
	if err := rule.Check(limitOrder("VND", "HOSE", 16100, 100)); err == nil {
		t.Error("price above ceiling accepted")
	}
	if err := rule.Check(limitOrder("VND", "HOSE", 12900, 100)); err == nil {
		t.Error("price below floor accepted")
	}
	if err := rule.Check(limitOrder("ABC", "HOSE", 1, 100)); err != nil {
		t.Errorf("symbol without band rejected: %v", err)
	}
}

func TestMaxQuantityRule(t *testing.T) {
	rule := NewMaxQuantityRule(decimal.NewFromInt(1000))

	if err := rule.Check(limitOrder("VND", "HOSE", 15600, 1000)); err != nil {
		t.Errorf("at-cap quantity rejected: %v", err)
	}
	if err := rule.Check(limitOrder("VND", "HOSE", 15600, 1001)); err == nil {
		t.Error("over-cap quantity accepted")
	}

	unlimited := NewMaxQuantityRule(decimal.Zero)
	if err := unlimited.Check(limitOrder("VND", "HOSE", 15600, 1_000_000)); err != nil {
		t.Errorf("unlimited rule rejected: %v", err)
	}
}
