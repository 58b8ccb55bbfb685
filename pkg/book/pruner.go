package book

import (
	"time"

	"go.uber.org/zap"
)

// pruneGuard delays the sweep slightly past the cutoff so orders stamped at
// the cutoff instant are already inside the session boundary.
const pruneGuard = 100 * time.Millisecond

// Config carries per-book settings. Cutoff is a "15:04" wall-clock time in
// Location; zero values mean 16:00 in the system local zone.
type Config struct {
	Symbol   string `yaml:"symbol"`
	Cutoff   string `yaml:"cutoff"`
	Location string `yaml:"location"`
}

// pruner cancels every GoodForDay order once per day at the configured
// cutoff. It runs as a single goroutine owned by the book and joins on stop.
type pruner struct {
	book *Book

	cutoffHour   int
	cutoffMinute int
	loc          *time.Location

	now    func() time.Time
	stopCh chan struct{}
	doneCh chan struct{}
}

func newPruner(b *Book, cfg Config) *pruner {
	hour, minute := 16, 0
	if cfg.Cutoff != "" {
		if t, err := time.Parse("15:04", cfg.Cutoff); err == nil {
			hour, minute = t.Hour(), t.Minute()
		} else {
			zap.S().Warnf("book %s: invalid cutoff %q, using 16:00", cfg.Symbol, cfg.Cutoff)
		}
	}

	loc := time.Local
	if cfg.Location != "" {
		if l, err := time.LoadLocation(cfg.Location); err == nil {
			loc = l
		} else {
			zap.S().Warnf("book %s: invalid location %q, using local", cfg.Symbol, cfg.Location)
		}
	}

	return &pruner{
		book:         b,
		cutoffHour:   hour,
		cutoffMinute: minute,
		loc:          loc,
		now:          time.Now,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}
}

func (p *pruner) start() {
	go p.loop()
}

// stop signals the loop and waits for it to exit.
func (p *pruner) stop() {
	close(p.stopCh)
	<-p.doneCh
}

func (p *pruner) loop() {
	defer close(p.doneCh)

	for {
		now := p.now()
		wait := p.nextCutoff(now).Sub(now) + pruneGuard
		timer := time.NewTimer(wait)

		select {
		case <-p.stopCh:
			timer.Stop()
			return
		case <-timer.C:
		}

		n := p.pruneGoodForDay()
		if n > 0 {
			zap.S().Infof("book %s: pruned %d good-for-day orders", p.book.Symbol(), n)
		}
	}
}

// nextCutoff is the first cutoff instant strictly after now.
func (p *pruner) nextCutoff(now time.Time) time.Time {
	now = now.In(p.loc)
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), p.cutoffHour, p.cutoffMinute, 0, 0, p.loc)
	if !cutoff.After(now) {
		cutoff = cutoff.AddDate(0, 0, 1)
	}
	return cutoff
}

// pruneGoodForDay cancels all resting GoodForDay orders in one critical
// section and reports how many it removed.
func (p *pruner) pruneGoodForDay() int {
	b := p.book
	b.mu.Lock()
	defer b.mu.Unlock()

	var ids []OrderID
	for id, entry := range b.orders {
		if entry.order.Type() == GoodForDay {
			ids = append(ids, id)
		}
	}
	for _, id := range ids {
		b.cancelLocked(id)
	}
	return len(ids)
}
