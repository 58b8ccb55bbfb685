package marketdata

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gammazero/deque"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/joripage/matchbook-dev/pkg/book"
	"github.com/joripage/matchbook-dev/pkg/oms/model"
)

type Config struct {
	TradeTopic       string        `yaml:"trade_topic"`
	DepthKeyPrefix   string        `yaml:"depth_key_prefix"`
	DepthTTL         time.Duration `yaml:"depth_ttl"`
	SnapshotInterval time.Duration `yaml:"snapshot_interval"`
	RecentTradeLimit int           `yaml:"recent_trade_limit"`
	Symbols          []string      `yaml:"symbols"`
}

// Publisher is the slice of kafkawrapper.Producer we need.
type Publisher interface {
	PublishJSON(ctx context.Context, topic string, key string, v any, headers map[string]string) error
}

// DepthSource serves aggregated depth, bids then asks, best-first.
type DepthSource interface {
	Levels(symbol string) (bids, asks []book.LevelInfo)
}

// MarketData fans matched trades out to the trade topic, keeps a bounded
// ring of recent trades per symbol, and periodically snapshots depth into
// redis for the query side.
type MarketData struct {
	cfg      *Config
	producer Publisher
	redis    *redis.Client
	depth    DepthSource

	mu     sync.Mutex
	recent map[string]*deque.Deque[*model.Trade]

	started bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func New(cfg *Config, producer Publisher, redisClient *redis.Client, depth DepthSource) *MarketData {
	if cfg.RecentTradeLimit <= 0 {
		cfg.RecentTradeLimit = 100
	}
	if cfg.DepthKeyPrefix == "" {
		cfg.DepthKeyPrefix = "depth:"
	}
	if cfg.SnapshotInterval <= 0 {
		cfg.SnapshotInterval = time.Second
	}

	return &MarketData{
		cfg:      cfg,
		producer: producer,
		redis:    redisClient,
		depth:    depth,
		recent:   make(map[string]*deque.Deque[*model.Trade]),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start runs the depth snapshot loop until Stop.
func (m *MarketData) Start(ctx context.Context) {
	m.started = true
	go m.runSnapshotLoop(ctx)
}

func (m *MarketData) Stop() {
	close(m.stopCh)
	if m.started {
		<-m.doneCh
	}
}

// PublishTrade records the trade in the recent ring and hands it to the
// trade topic, keyed by symbol so one symbol's tape stays ordered.
func (m *MarketData) PublishTrade(ctx context.Context, trade *model.Trade) {
	m.recordTrade(trade)

	if m.producer == nil {
		return
	}
	if err := m.producer.PublishJSON(ctx, m.cfg.TradeTopic, trade.Symbol, trade, nil); err != nil {
		zap.S().Errorw("publish trade", "tradeID", trade.TradeID, "err", err)
	}
}

func (m *MarketData) recordTrade(trade *model.Trade) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ring, ok := m.recent[trade.Symbol]
	if !ok {
		ring = &deque.Deque[*model.Trade]{}
		m.recent[trade.Symbol] = ring
	}
	ring.PushBack(trade)
	for ring.Len() > m.cfg.RecentTradeLimit {
		ring.PopFront()
	}
}

// RecentTrades returns the retained tape for one symbol, oldest first.
func (m *MarketData) RecentTrades(symbol string) []*model.Trade {
	m.mu.Lock()
	defer m.mu.Unlock()

	ring, ok := m.recent[symbol]
	if !ok {
		return nil
	}
	out := make([]*model.Trade, ring.Len())
	for i := 0; i < ring.Len(); i++ {
		out[i] = ring.At(i)
	}
	return out
}

type depthLevel struct {
	Price    book.Price    `json:"price"`
	Quantity book.Quantity `json:"quantity"`
}

type depthSnapshot struct {
	Symbol    string       `json:"symbol"`
	Bids      []depthLevel `json:"bids"`
	Asks      []depthLevel `json:"asks"`
	Timestamp time.Time    `json:"timestamp"`
}

func (m *MarketData) runSnapshotLoop(ctx context.Context) {
	defer close(m.doneCh)
	if m.redis == nil || m.depth == nil || len(m.cfg.Symbols) == 0 {
		return
	}

	ticker := time.NewTicker(m.cfg.SnapshotInterval)
	defer ticker.Stop()
	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			for _, symbol := range m.cfg.Symbols {
				m.snapshotDepth(ctx, symbol)
			}
		}
	}
}

func (m *MarketData) snapshotDepth(ctx context.Context, symbol string) {
	bids, asks := m.depth.Levels(symbol)
	snap := buildDepthSnapshot(symbol, bids, asks, time.Now())

	payload, err := json.Marshal(snap)
	if err != nil {
		zap.S().Errorw("marshal depth snapshot", "symbol", symbol, "err", err)
		return
	}

	key := m.cfg.DepthKeyPrefix + symbol
	if err := m.redis.Set(ctx, key, payload, m.cfg.DepthTTL).Err(); err != nil {
		zap.S().Errorw("cache depth snapshot", "symbol", symbol, "err", err)
	}
}

func buildDepthSnapshot(symbol string, bids, asks []book.LevelInfo, ts time.Time) depthSnapshot {
	snap := depthSnapshot{
		Symbol:    symbol,
		Bids:      make([]depthLevel, 0, len(bids)),
		Asks:      make([]depthLevel, 0, len(asks)),
		Timestamp: ts,
	}
	for _, l := range bids {
		snap.Bids = append(snap.Bids, depthLevel{Price: l.Price, Quantity: l.Quantity})
	}
	for _, l := range asks {
		snap.Asks = append(snap.Asks, depthLevel{Price: l.Price, Quantity: l.Quantity})
	}
	return snap
}
