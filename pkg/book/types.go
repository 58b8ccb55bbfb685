package book

import "math"

type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

type OrderType string

const (
	GoodTillCancel OrderType = "GTC"
	FillAndKill    OrderType = "FAK" // fill what crosses now, cancel the rest
	FillOrKill     OrderType = "FOK" // full immediate fill or reject
	GoodForDay     OrderType = "GFD" // cancelled at the daily cutoff
	Market         OrderType = "MKT" // resolved to a limit at admission
)

// Price is a signed tick count. Quantity counts units; zero is invalid at
// admission.
type (
	Price    = int32
	Quantity = uint32
	OrderID  = uint64
)

// InvalidPrice is the sentinel carried by Market orders before admission
// resolves them. Admission never lets it into the book.
const InvalidPrice Price = math.MinInt32

// TradeInfo is one leg of a trade. The price is the resting order's price at
// the instant of match, not the aggressor's.
type TradeInfo struct {
	OrderID  OrderID
	Price    Price
	Quantity Quantity
}

// Trade pairs the bid and ask legs of a single match. Both legs carry the
// same quantity.
type Trade struct {
	Bid TradeInfo
	Ask TradeInfo
}

// LevelInfo is one row of an aggregated depth snapshot.
type LevelInfo struct {
	Price    Price
	Quantity Quantity
}
