package book

import (
	"testing"
	"time"
)

func TestNextCutoffBeforeCutoff(t *testing.T) {
	b := newTestBook()
	defer b.Close()

	p := b.pruner
	now := time.Date(2025, 3, 10, 9, 30, 0, 0, p.loc)
	next := p.nextCutoff(now)
	want := time.Date(2025, 3, 10, 16, 0, 0, 0, p.loc)
	if !next.Equal(want) {
		t.Errorf("expected %v, got %v", want, next)
	}
}

func TestNextCutoffAfterCutoffRollsOver(t *testing.T) {
	b := newTestBook()
	defer b.Close()

	p := b.pruner
	now := time.Date(2025, 3, 10, 16, 0, 0, 0, p.loc)
	next := p.nextCutoff(now)
	want := time.Date(2025, 3, 11, 16, 0, 0, 0, p.loc)
	if !next.Equal(want) {
		t.Errorf("expected %v, got %v", want, next)
	}
}

func TestNextCutoffCustom(t *testing.T) {
	b := NewBook(Config{Symbol: "TEST", Cutoff: "14:30", Location: "UTC"})
	defer b.Close()

	p := b.pruner
	now := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	next := p.nextCutoff(now)
	want := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Errorf("expected %v, got %v", want, next)
	}
}

func TestInvalidCutoffFallsBack(t *testing.T) {
	b := NewBook(Config{Symbol: "TEST", Cutoff: "not-a-time"})
	defer b.Close()

	if b.pruner.cutoffHour != 16 || b.pruner.cutoffMinute != 0 {
		t.Errorf("expected fallback to 16:00, got %02d:%02d", b.pruner.cutoffHour, b.pruner.cutoffMinute)
	}
}

func TestPruneGoodForDayOnly(t *testing.T) {
	b := newTestBook()
	defer b.Close()

	b.AddOrder(NewOrder(GoodForDay, 1, Buy, 100, 5))
	b.AddOrder(NewOrder(GoodForDay, 2, Sell, 105, 5))
	b.AddOrder(NewOrder(GoodTillCancel, 3, Buy, 99, 5))

	n := b.pruner.pruneGoodForDay()
	if n != 2 {
		t.Fatalf("expected 2 pruned orders, got %d", n)
	}
	if b.Size() != 1 {
		t.Errorf("expected 1 resting order, got %d", b.Size())
	}
}

func TestPrunerFiresAtCutoff(t *testing.T) {
	b := NewBook(Config{Symbol: "TEST"})
	defer b.Close()

	b.AddOrder(NewOrder(GoodForDay, 1, Buy, 100, 5))

	// rewire the clock so the next cutoff is almost due, then restart the loop
	b.pruner.stop()
	b.pruner.stopCh = make(chan struct{})
	b.pruner.doneCh = make(chan struct{})
	b.pruner.now = func() time.Time {
		now := time.Now().In(b.pruner.loc)
		return time.Date(now.Year(), now.Month(), now.Day(),
			b.pruner.cutoffHour, b.pruner.cutoffMinute, 0, 0, b.pruner.loc).Add(-20 * time.Millisecond)
	}
	b.pruner.start()

	deadline := time.After(2 * time.Second)
	for b.Size() != 0 {
		select {
		case <-deadline:
			t.Fatalf("good-for-day order not pruned, size %d", b.Size())
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestCloseStopsPruner(t *testing.T) {
	b := newTestBook()
	b.Close()

	select {
	case <-b.pruner.doneCh:
	default:
		t.Fatalf("pruner loop still running after Close")
	}
}
