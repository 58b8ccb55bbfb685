package book

import "testing"

func TestModifyOrderChangeQty(t *testing.T) {
	b := newTestBook()
	defer b.Close()

	b.AddOrder(NewOrder(GoodTillCancel, 1, Buy, 100, 10))
	trades := b.ModifyOrder(Modify{OrderID: 1, Side: Buy, Price: 100, Quantity: 5})
	if len(trades) != 0 {
		t.Fatalf("expected no trades, got %d", len(trades))
	}

	bids, _ := b.Levels()
	if len(bids) != 1 || bids[0].Price != 100 || bids[0].Quantity != 5 {
		t.Errorf("expected bids [(100,5)], got %+v", bids)
	}
}

func TestModifyOrderChangePrice(t *testing.T) {
	b := newTestBook()
	defer b.Close()

	b.AddOrder(NewOrder(GoodTillCancel, 1, Buy, 100, 10))
	b.ModifyOrder(Modify{OrderID: 1, Side: Buy, Price: 105, Quantity: 10})

	bids, _ := b.Levels()
	if len(bids) != 1 || bids[0].Price != 105 || bids[0].Quantity != 10 {
		t.Errorf("expected bids [(105,10)], got %+v", bids)
	}
}

func TestModifyOrderCanTriggerMatch(t *testing.T) {
	b := newTestBook()
	defer b.Close()

	b.AddOrder(NewOrder(GoodTillCancel, 1, Buy, 98, 10))
	b.AddOrder(NewOrder(GoodTillCancel, 2, Sell, 100, 10))

	trades := b.ModifyOrder(Modify{OrderID: 1, Side: Buy, Price: 100, Quantity: 10})
	if len(trades) != 1 {
		t.Fatalf("expected the repriced bid to cross, got %d trades", len(trades))
	}
	if b.Size() != 0 {
		t.Errorf("expected empty book, got size %d", b.Size())
	}
}

func TestModifyOrderLosesTimePriority(t *testing.T) {
	b := newTestBook()
	defer b.Close()

	b.AddOrder(NewOrder(GoodTillCancel, 1, Buy, 100, 5))
	b.AddOrder(NewOrder(GoodTillCancel, 2, Buy, 100, 5))
	b.ModifyOrder(Modify{OrderID: 1, Side: Buy, Price: 100, Quantity: 5})

	trades := b.AddOrder(NewOrder(GoodTillCancel, 3, Sell, 100, 5))
	if len(trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(trades))
	}
	if trades[0].Bid.OrderID != 2 {
		t.Errorf("modified order must queue behind order 2, matched bid %d", trades[0].Bid.OrderID)
	}
}

func TestModifyOrderPreservesType(t *testing.T) {
	b := newTestBook()
	defer b.Close()

	b.AddOrder(NewOrder(GoodForDay, 1, Buy, 100, 5))
	b.ModifyOrder(Modify{OrderID: 1, Side: Buy, Price: 101, Quantity: 5})

	n := b.pruner.pruneGoodForDay()
	if n != 1 {
		t.Errorf("replacement should keep the good-for-day type, pruned %d", n)
	}
}

func TestModifyUnknownOrderRejected(t *testing.T) {
	b := newTestBook()
	defer b.Close()

	trades := b.ModifyOrder(Modify{OrderID: 42, Side: Buy, Price: 100, Quantity: 5})
	if len(trades) != 0 {
		t.Fatalf("expected rejection, got %d trades", len(trades))
	}
	if b.Size() != 0 {
		t.Errorf("expected empty book, got size %d", b.Size())
	}
}

func TestModifySideMismatchRejected(t *testing.T) {
	b := newTestBook()
	defer b.Close()

	b.AddOrder(NewOrder(GoodTillCancel, 1, Buy, 100, 5))
	trades := b.ModifyOrder(Modify{OrderID: 1, Side: Sell, Price: 100, Quantity: 5})
	if len(trades) != 0 {
		t.Fatalf("expected rejection, got %d trades", len(trades))
	}

	// the resting order is untouched
	bids, _ := b.Levels()
	if len(bids) != 1 || bids[0].Price != 100 || bids[0].Quantity != 5 {
		t.Errorf("expected bids [(100,5)], got %+v", bids)
	}
}

func TestCancelOrderIdempotent(t *testing.T) {
	b := newTestBook()
	defer b.Close()

	b.AddOrder(NewOrder(GoodTillCancel, 1, Buy, 100, 5))
	b.CancelOrder(1)
	b.CancelOrder(1)
	b.CancelOrder(99)

	if b.Size() != 0 {
		t.Errorf("expected empty book, got size %d", b.Size())
	}
	bids, asks := b.Levels()
	if len(bids) != 0 || len(asks) != 0 {
		t.Errorf("expected empty levels, got bids=%+v asks=%+v", bids, asks)
	}
}

func TestCancelOrdersBatch(t *testing.T) {
	b := newTestBook()
	defer b.Close()

	b.AddOrder(NewOrder(GoodTillCancel, 1, Buy, 100, 5))
	b.AddOrder(NewOrder(GoodTillCancel, 2, Buy, 99, 5))
	b.AddOrder(NewOrder(GoodTillCancel, 3, Sell, 105, 5))

	b.CancelOrders([]OrderID{1, 3, 7})
	if b.Size() != 1 {
		t.Errorf("expected 1 resting order, got %d", b.Size())
	}
	bids, asks := b.Levels()
	if len(bids) != 1 || bids[0].Price != 99 {
		t.Errorf("expected bids [(99,5)], got %+v", bids)
	}
	if len(asks) != 0 {
		t.Errorf("expected no asks, got %+v", asks)
	}
}
