package book

import (
	"sync"
	"testing"
)

func newTestBook() *Book {
	return NewBook(Config{Symbol: "TEST"})
}

func TestSimpleCross(t *testing.T) {
	b := newTestBook()
	defer b.Close()

	trades := b.AddOrder(NewOrder(GoodTillCancel, 1, Buy, 100, 10))
	if len(trades) != 0 {
		t.Fatalf("expected no trades on first add, got %d", len(trades))
	}

	trades = b.AddOrder(NewOrder(GoodTillCancel, 2, Sell, 100, 10))
	if len(trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(trades))
	}
	trade := trades[0]
	if trade.Bid.OrderID != 1 || trade.Bid.Price != 100 || trade.Bid.Quantity != 10 {
		t.Errorf("incorrect bid leg: %+v", trade.Bid)
	}
	if trade.Ask.OrderID != 2 || trade.Ask.Price != 100 || trade.Ask.Quantity != 10 {
		t.Errorf("incorrect ask leg: %+v", trade.Ask)
	}

	if b.Size() != 0 {
		t.Errorf("expected empty book, got size %d", b.Size())
	}
	bids, asks := b.Levels()
	if len(bids) != 0 || len(asks) != 0 {
		t.Errorf("expected empty levels, got bids=%+v asks=%+v", bids, asks)
	}
}

func TestPartialFillRestingRemainder(t *testing.T) {
	b := newTestBook()
	defer b.Close()

	b.AddOrder(NewOrder(GoodTillCancel, 1, Buy, 100, 10))
	trades := b.AddOrder(NewOrder(GoodTillCancel, 2, Sell, 100, 4))
	if len(trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(trades))
	}
	if trades[0].Bid.Quantity != 4 || trades[0].Ask.Quantity != 4 {
		t.Errorf("expected qty 4 on both legs, got %+v", trades[0])
	}

	if b.Size() != 1 {
		t.Errorf("expected 1 resting order, got %d", b.Size())
	}
	bids, asks := b.Levels()
	if len(bids) != 1 || bids[0].Price != 100 || bids[0].Quantity != 6 {
		t.Errorf("expected bids [(100,6)], got %+v", bids)
	}
	if len(asks) != 0 {
		t.Errorf("expected no asks, got %+v", asks)
	}
}

func TestNoMatchDueToPrice(t *testing.T) {
	b := newTestBook()
	defer b.Close()

	b.AddOrder(NewOrder(GoodTillCancel, 1, Sell, 100, 10))
	trades := b.AddOrder(NewOrder(GoodTillCancel, 2, Buy, 98, 10))
	if len(trades) != 0 {
		t.Fatalf("expected no match, got %d", len(trades))
	}
	if b.Size() != 2 {
		t.Errorf("expected both orders resting, got size %d", b.Size())
	}
}

func TestPriceTimePriority(t *testing.T) {
	b := newTestBook()
	defer b.Close()

	b.AddOrder(NewOrder(GoodTillCancel, 1, Buy, 100, 5))
	b.AddOrder(NewOrder(GoodTillCancel, 2, Buy, 100, 5))
	b.AddOrder(NewOrder(GoodTillCancel, 3, Buy, 101, 5))

	trades := b.AddOrder(NewOrder(GoodTillCancel, 4, Sell, 100, 12))
	if len(trades) != 3 {
		t.Fatalf("expected 3 trades, got %d", len(trades))
	}

	want := []TradeInfo{
		{OrderID: 3, Price: 101, Quantity: 5},
		{OrderID: 1, Price: 100, Quantity: 5},
		{OrderID: 2, Price: 100, Quantity: 2},
	}
	for i, w := range want {
		if trades[i].Bid != w {
			t.Errorf("trade %d: expected bid leg %+v, got %+v", i, w, trades[i].Bid)
		}
	}

	bids, _ := b.Levels()
	if len(bids) != 1 || bids[0].Price != 100 || bids[0].Quantity != 3 {
		t.Errorf("expected bids [(100,3)], got %+v", bids)
	}
}

func TestMultiLevelMatch(t *testing.T) {
	b := newTestBook()
	defer b.Close()

	b.AddOrder(NewOrder(GoodTillCancel, 1, Sell, 101, 5))
	b.AddOrder(NewOrder(GoodTillCancel, 2, Sell, 102, 5))
	b.AddOrder(NewOrder(GoodTillCancel, 3, Sell, 103, 5))

	trades := b.AddOrder(NewOrder(GoodTillCancel, 4, Buy, 105, 15))
	if len(trades) != 3 {
		t.Fatalf("expected 3 trades, got %d", len(trades))
	}
	if trades[0].Ask.Price != 101 || trades[2].Ask.Price != 103 {
		t.Errorf("expected matching from best ask upward, got %+v", trades)
	}
	if b.Size() != 0 {
		t.Errorf("expected empty book, got size %d", b.Size())
	}
}

func TestDuplicateIDRejected(t *testing.T) {
	b := newTestBook()
	defer b.Close()

	b.AddOrder(NewOrder(GoodTillCancel, 1, Buy, 100, 10))
	trades := b.AddOrder(NewOrder(GoodTillCancel, 1, Sell, 100, 10))
	if len(trades) != 0 {
		t.Fatalf("duplicate id should be rejected, got %d trades", len(trades))
	}

	if b.Size() != 1 {
		t.Errorf("expected 1 resting order, got %d", b.Size())
	}
	bids, _ := b.Levels()
	if len(bids) != 1 || bids[0].Quantity != 10 {
		t.Errorf("duplicate add must leave the book untouched, got %+v", bids)
	}
}

func TestZeroQuantityRejected(t *testing.T) {
	b := newTestBook()
	defer b.Close()

	b.AddOrder(NewOrder(GoodTillCancel, 1, Buy, 100, 0))
	if b.Size() != 0 {
		t.Errorf("zero quantity should not rest, got size %d", b.Size())
	}
}

func TestLevelsReadOnly(t *testing.T) {
	b := newTestBook()
	defer b.Close()

	b.AddOrder(NewOrder(GoodTillCancel, 1, Buy, 100, 5))
	b.AddOrder(NewOrder(GoodTillCancel, 2, Sell, 105, 7))

	bids1, asks1 := b.Levels()
	bids2, asks2 := b.Levels()
	if len(bids1) != len(bids2) || len(asks1) != len(asks2) {
		t.Fatalf("repeated Levels calls disagree")
	}
	for i := range bids1 {
		if bids1[i] != bids2[i] {
			t.Errorf("bid row %d changed: %+v vs %+v", i, bids1[i], bids2[i])
		}
	}
	for i := range asks1 {
		if asks1[i] != asks2[i] {
			t.Errorf("ask row %d changed: %+v vs %+v", i, asks1[i], asks2[i])
		}
	}
}

func TestHighVolumeOrders(t *testing.T) {
	b := newTestBook()
	defer b.Close()

	trades := 0
	num := 10_000
	for i := 0; i < num; i++ {
		side := Buy
		if i%2 == 0 {
			side = Sell
		}
		trades += len(b.AddOrder(NewOrder(GoodTillCancel, OrderID(i+1), side, 100, 10)))
	}

	if trades != num/2 {
		t.Errorf("expected %d trades, got %d", num/2, trades)
	}
	if b.Size() != 0 {
		t.Errorf("expected empty book, got size %d", b.Size())
	}
}

func TestConcurrentOrders(t *testing.T) {
	b := newTestBook()
	defer b.Close()

	var wg sync.WaitGroup
	n := 1000
	for i := 0; i < n; i++ {
		wg.Add(2)
		go func(id OrderID) {
			defer wg.Done()
			b.AddOrder(NewOrder(GoodTillCancel, id, Buy, 100, 10))
		}(OrderID(i + 1))
		go func(id OrderID) {
			defer wg.Done()
			b.AddOrder(NewOrder(GoodTillCancel, id, Sell, 100, 10))
		}(OrderID(n + i + 1))
	}
	wg.Wait()

	// every buy can cross a sell at the single price, so nothing rests
	if b.Size() != 0 {
		t.Errorf("expected empty book, got size %d", b.Size())
	}
}

func TestLevelsAgreeWithQueues(t *testing.T) {
	b := newTestBook()
	defer b.Close()

	b.AddOrder(NewOrder(GoodTillCancel, 1, Buy, 100, 5))
	b.AddOrder(NewOrder(GoodTillCancel, 2, Buy, 100, 7))
	b.AddOrder(NewOrder(GoodTillCancel, 3, Buy, 99, 4))
	b.AddOrder(NewOrder(GoodTillCancel, 4, Sell, 100, 6))
	b.CancelOrder(3)

	b.mu.Lock()
	defer b.mu.Unlock()
	check := func(price Price, lvl *level) {
		data, ok := b.levels[price]
		if !ok {
			t.Errorf("price %d has a queue but no aggregate", price)
			return
		}
		if data.quantity != lvl.totalQuantity() {
			t.Errorf("price %d: aggregate quantity %d, queue sum %d", price, data.quantity, lvl.totalQuantity())
		}
		if data.count != lvl.len() {
			t.Errorf("price %d: aggregate count %d, queue len %d", price, data.count, lvl.len())
		}
	}
	b.bids.Scan(func(price Price, lvl *level) bool { check(price, lvl); return true })
	b.asks.Scan(func(price Price, lvl *level) bool { check(price, lvl); return true })
}

func BenchmarkAddOrder(b *testing.B) {
	bk := newTestBook()
	defer bk.Close()

	for i := 0; i < 10_000; i++ {
		bk.AddOrder(NewOrder(GoodTillCancel, OrderID(i+1), Sell, Price(100+i%5), 10))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		bk.AddOrder(NewOrder(GoodTillCancel, OrderID(100_000+i), Buy, 101, 10))
	}
}
