package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade is the public record of one match, published to market data. Each
// leg keeps its own price because fills execute at the resting order's
// price.
type Trade struct {
	TradeID     string          `json:"trade_id"`
	Symbol      string          `json:"symbol"`
	BuyOrderID  string          `json:"buy_order_id"`
	SellOrderID string          `json:"sell_order_id"`
	BuyPrice    decimal.Decimal `json:"buy_price"`
	SellPrice   decimal.Decimal `json:"sell_price"`
	Quantity    decimal.Decimal `json:"quantity"`
	Timestamp   time.Time       `json:"timestamp"`
}
