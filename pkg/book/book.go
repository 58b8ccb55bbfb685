package book

import (
	"container/list"
	"sync"

	"github.com/tidwall/btree"
)

// orderEntry ties a resting order to its queue position for O(1) cancel.
type orderEntry struct {
	order *Order
	elem  *list.Element
}

// Book is a single-symbol limit order book with price-time priority
// matching. Three coupled indices back it: the ordered bid/ask price maps,
// the by-id table, and the per-price aggregates. A single mutex serializes
// every mutation and read; the good-for-day pruner runs beside it.
type Book struct {
	symbol string

	mu     sync.Mutex
	bids   *btree.Map[Price, *level] // best bid = Max
	asks   *btree.Map[Price, *level] // best ask = Min
	orders map[OrderID]*orderEntry
	levels levels

	pruner *pruner
}

func NewBook(cfg Config) *Book {
	b := &Book{
		symbol: cfg.Symbol,
		bids:   btree.NewMap[Price, *level](32),
		asks:   btree.NewMap[Price, *level](32),
		orders: make(map[OrderID]*orderEntry),
		levels: make(levels),
	}

	b.pruner = newPruner(b, cfg)
	b.pruner.start()

	return b
}

func (b *Book) Symbol() string { return b.symbol }

// Close stops the pruner and waits for it to exit. The book itself stays
// usable; Close only ends the background task.
func (b *Book) Close() {
	b.pruner.stop()
}

// AddOrder admits an order, matches it against the opposite side, and
// returns the trades it produced. Rejections are silent: duplicate ids,
// Market orders with an empty opposite side, FillAndKill orders that cannot
// cross, FillOrKill orders without enough crossable depth, zero quantities,
// and the InvalidPrice sentinel all return no trades and leave the book
// untouched.
func (b *Book) AddOrder(order *Order) []Trade {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.addOrderLocked(order)
}

func (b *Book) addOrderLocked(order *Order) []Trade {
	if _, ok := b.orders[order.ID()]; ok {
		return nil
	}
	if order.RemainingQuantity() == 0 {
		return nil
	}

	switch order.Type() {
	case Market:
		worst, ok := b.worstOppositePrice(order.Side())
		if !ok {
			return nil
		}
		order.ToGoodTillCancel(worst)
	case FillAndKill:
		if !b.canMatch(order.Side(), order.Price()) {
			return nil
		}
	case FillOrKill:
		if !b.canFullyFill(order.Side(), order.Price(), order.InitialQuantity()) {
			return nil
		}
	}

	if order.Price() == InvalidPrice {
		return nil
	}

	tree := b.sideTree(order.Side())
	lvl, ok := tree.Get(order.Price())
	if !ok {
		lvl = newLevel(order.Price())
		tree.Set(order.Price(), lvl)
	}
	elem := lvl.pushBack(order)
	b.orders[order.ID()] = &orderEntry{order: order, elem: elem}
	b.levels.update(order.Price(), order.RemainingQuantity(), levelActionAdd, false)

	return b.matchOrders()
}

// CancelOrder removes a resting order. Unknown ids are a no-op, so the call
// is idempotent.
func (b *Book) CancelOrder(id OrderID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.cancelLocked(id)
}

// CancelOrders cancels a batch under one critical section.
func (b *Book) CancelOrders(ids []OrderID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, id := range ids {
		b.cancelLocked(id)
	}
}

func (b *Book) cancelLocked(id OrderID) {
	entry, ok := b.orders[id]
	if !ok {
		return
	}
	order := entry.order
	delete(b.orders, id)

	tree := b.sideTree(order.Side())
	lvl, ok := tree.Get(order.Price())
	if !ok {
		return
	}
	lvl.remove(entry.elem)
	if lvl.len() == 0 {
		tree.Delete(order.Price())
	}
	b.levels.update(order.Price(), order.RemainingQuantity(), levelActionRemove, false)
}

// ModifyOrder is cancel-then-replace preserving the resting order's type,
// executed under a single lock acquisition. The replacement loses its time
// priority. Unknown ids and side mismatches are rejected silently.
func (b *Book) ModifyOrder(m Modify) []Trade {
	b.mu.Lock()
	defer b.mu.Unlock()

	entry, ok := b.orders[m.OrderID]
	if !ok {
		return nil
	}
	if entry.order.Side() != m.Side {
		return nil
	}

	orderType := entry.order.Type()
	b.cancelLocked(m.OrderID)
	return b.addOrderLocked(m.toOrder(orderType))
}

// Contains reports whether id currently rests in the book.
func (b *Book) Contains(id OrderID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	_, ok := b.orders[id]
	return ok
}

// Size is the number of resting orders across both sides.
func (b *Book) Size() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.orders)
}

// Levels returns the aggregated depth, bids best-first then asks best-first.
func (b *Book) Levels() (bids, asks []LevelInfo) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.bids.Reverse(func(price Price, _ *level) bool {
		bids = append(bids, LevelInfo{Price: price, Quantity: b.levels[price].quantity})
		return true
	})
	b.asks.Scan(func(price Price, _ *level) bool {
		asks = append(asks, LevelInfo{Price: price, Quantity: b.levels[price].quantity})
		return true
	})
	return bids, asks
}

func (b *Book) sideTree(side Side) *btree.Map[Price, *level] {
	if side == Buy {
		return b.bids
	}
	return b.asks
}

// worstOppositePrice resolves a Market order: the highest resting ask for a
// buy, the lowest resting bid for a sell.
func (b *Book) worstOppositePrice(side Side) (Price, bool) {
	if side == Buy {
		price, _, ok := b.asks.Max()
		return price, ok
	}
	price, _, ok := b.bids.Min()
	return price, ok
}

func (b *Book) canMatch(side Side, price Price) bool {
	if side == Buy {
		bestAsk, _, ok := b.asks.Min()
		return ok && price >= bestAsk
	}
	bestBid, _, ok := b.bids.Max()
	return ok && price <= bestBid
}

// canFullyFill walks the opposite side best-first over the aggregate index,
// accumulating crossable quantity until the request is covered.
func (b *Book) canFullyFill(side Side, price Price, quantity Quantity) bool {
	if !b.canMatch(side, price) {
		return false
	}

	var acc Quantity
	if side == Buy {
		b.asks.Scan(func(p Price, _ *level) bool {
			if p > price || acc >= quantity {
				return false
			}
			acc += b.levels[p].quantity
			return true
		})
	} else {
		b.bids.Reverse(func(p Price, _ *level) bool {
			if p < price || acc >= quantity {
				return false
			}
			acc += b.levels[p].quantity
			return true
		})
	}
	return acc >= quantity
}

// matchOrders runs the cross to fixed point: while the best bid meets the
// best ask, fill the two front orders by the smaller remaining quantity and
// emit a trade priced at each resting leg. Afterwards a FillAndKill order
// left at either front is purged; its remainder can no longer cross.
func (b *Book) matchOrders() []Trade {
	var trades []Trade

	for {
		bidPrice, bidLevel, ok := b.bids.Max()
		if !ok {
			break
		}
		askPrice, askLevel, ok := b.asks.Min()
		if !ok {
			break
		}
		if bidPrice < askPrice {
			break
		}

		for bidLevel.len() > 0 && askLevel.len() > 0 {
			bid := bidLevel.front()
			ask := askLevel.front()

			quantity := bid.RemainingQuantity()
			if ask.RemainingQuantity() < quantity {
				quantity = ask.RemainingQuantity()
			}

			mustFill(bid, quantity)
			mustFill(ask, quantity)

			trades = append(trades, Trade{
				Bid: TradeInfo{OrderID: bid.ID(), Price: bid.Price(), Quantity: quantity},
				Ask: TradeInfo{OrderID: ask.ID(), Price: ask.Price(), Quantity: quantity},
			})

			b.levels.update(bidPrice, quantity, levelActionMatch, bid.IsFilled())
			b.levels.update(askPrice, quantity, levelActionMatch, ask.IsFilled())

			if bid.IsFilled() {
				bidLevel.remove(b.orders[bid.ID()].elem)
				delete(b.orders, bid.ID())
			}
			if ask.IsFilled() {
				askLevel.remove(b.orders[ask.ID()].elem)
				delete(b.orders, ask.ID())
			}
		}

		if bidLevel.len() == 0 {
			b.bids.Delete(bidPrice)
		}
		if askLevel.len() == 0 {
			b.asks.Delete(askPrice)
		}
	}

	if _, lvl, ok := b.bids.Max(); ok {
		if front := lvl.front(); front.Type() == FillAndKill {
			b.cancelLocked(front.ID())
		}
	}
	if _, lvl, ok := b.asks.Min(); ok {
		if front := lvl.front(); front.Type() == FillAndKill {
			b.cancelLocked(front.ID())
		}
	}

	return trades
}

// mustFill panics on overfill: the quantity was computed from both
// remainders, so failure means the indices no longer agree.
func mustFill(o *Order, quantity Quantity) {
	if err := o.Fill(quantity); err != nil {
		panic(err)
	}
}
