package oms

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/joripage/matchbook-dev/pkg/book"
	eventstore "github.com/joripage/matchbook-dev/pkg/oms/event_store"
	"github.com/joripage/matchbook-dev/pkg/oms/model"
	riskrule "github.com/joripage/matchbook-dev/pkg/oms/risk_rule"
)

type Config struct {
	// PriceScale is the number of decimal places carried into the book's
	// tick grid. A scale of 2 makes 101.25 into 10125 ticks.
	PriceScale int32              `yaml:"price_scale"`
	Books      book.ManagerConfig `yaml:"books"`

	CleanInterval time.Duration `yaml:"clean_interval"`
}

// OMS sits between gateways and the matching core. It owns order state,
// resolves client ids, applies risk rules, and fans trades out to reports
// and market data.
type OMS struct {
	cfg          *Config
	orderGateway OrderGateway
	books        *book.Manager
	eventstore     eventstore.EventStore
	publisher      TradePublisher
	eventPublisher EventPublisher
	rules          []riskrule.RiskRule

	orderIDMapping sync.Map // OrderID string -> *model.Order
	bookIDMapping  sync.Map // book.OrderID -> *model.Order
	bookIDByOrder  sync.Map // OrderID string -> book.OrderID

	nextBookID atomic.Uint64
	stopCh     chan struct{}
}

var totalMatchQty int64 = 0
var totalMatchCount int64 = 0

func NewOMS(cfg *Config, orderGateway OrderGateway) *OMS {
	if cfg.CleanInterval <= 0 {
		cfg.CleanInterval = 10 * time.Second
	}

	return &OMS{
		cfg:          cfg,
		orderGateway: orderGateway,
		books:        book.NewManager(cfg.Books),
		eventstore:   eventstore.NewInMemoryEventStore(),
		stopCh:       make(chan struct{}),
	}
}

// RegisterRiskRule appends a pre-trade check. Rules run in registration
// order; the first failure rejects the order.
func (s *OMS) RegisterRiskRule(rule riskrule.RiskRule) {
	s.rules = append(s.rules, rule)
}

func (s *OMS) RegisterTradePublisher(p TradePublisher) {
	s.publisher = p
}

func (s *OMS) RegisterEventPublisher(p EventPublisher) {
	s.eventPublisher = p
}

func (s *OMS) Start(ctx context.Context) error {
	go s.startCleaner(s.cfg.CleanInterval)
	return s.orderGateway.Start(ctx)
}

func (s *OMS) Stop() {
	close(s.stopCh)
	s.books.Close()
}

func (s *OMS) AddOrder(ctx context.Context, addOrder *model.AddOrder) error {
	if s.eventstore.GetOrderID(addOrder.GatewayID) != "" {
		return errDuplicateOrder
	}

	order := &model.Order{}
	order.UpdateAddOrder(addOrder, uuid.NewString())

	for _, rule := range s.rules {
		if err := rule.Check(order); err != nil {
			s.rejectOrder(ctx, order)
			return err
		}
	}

	bookID := s.nextBookID.Add(1)
	bookOrder, err := s.toBookOrder(order, bookID)
	if err != nil {
		s.rejectOrder(ctx, order)
		return err
	}

	s.AddOrderToMap(order, bookID)

	trades := s.books.AddOrder(order.Symbol, bookOrder)
	resting := s.books.Book(order.Symbol).Contains(bookID)

	if len(trades) == 0 && !resting {
		// the book refused it: uncrossable immediate order, infeasible
		// all-or-nothing, or an empty opposite side for a market order
		s.DeleteOrderByOrderID(order.OrderID)
		s.rejectOrder(ctx, order)
		return errOrderRejected
	}

	order.Ack()
	s.report(ctx, order, "")

	s.processTrades(ctx, order.Symbol, trades)

	if !resting && !order.IsEnd() {
		// immediate-or-cancel remainder purged by the book; a market order's
		// remainder rests as a limit at its resolved price instead
		order.Expire()
		s.report(ctx, order, "")
	}

	return nil
}

func (s *OMS) CancelOrder(ctx context.Context, cancelOrder *model.CancelOrder) error {
	orderID := s.eventstore.GetOrderID(cancelOrder.OrigGatewayID)
	order, err := s.GetOrderByOrderID(orderID)
	if err != nil {
		return errGatewayIDNotFound
	}

	if !order.CanCancel() {
		return errInvalidOrderStatus
	}

	if bookID, ok := s.GetBookID(order.OrderID); ok {
		s.books.CancelOrder(order.Symbol, bookID)
	}
	order.UpdateCancelOrder(cancelOrder)
	s.report(ctx, order, cancelOrder.OrigGatewayID)

	return nil
}

func (s *OMS) ModifyOrder(ctx context.Context, modifyOrder *model.ModifyOrder) error {
	orderID := s.eventstore.GetOrderID(modifyOrder.OrigGatewayID)
	order, err := s.GetOrderByOrderID(orderID)
	if err != nil {
		return errGatewayIDNotFound
	}

	if !order.CanModify() {
		return errInvalidOrderStatus
	}

	newLeaves := modifyOrder.NewQuantity.Sub(order.CumQuantity)
	quantity, err := s.toBookQuantity(newLeaves)
	if err != nil {
		return err
	}
	price, err := s.toBookPrice(modifyOrder.NewPrice)
	if err != nil {
		return err
	}

	bookID, ok := s.GetBookID(order.OrderID)
	if !ok {
		return errOrderIDNotFound
	}

	side := book.Buy
	if order.Side == model.OrderSideSell {
		side = book.Sell
	}

	trades := s.books.ModifyOrder(order.Symbol, book.Modify{
		OrderID:  bookID,
		Side:     side,
		Price:    price,
		Quantity: quantity,
	})

	order.UpdateModifyOrder(modifyOrder)
	s.report(ctx, order, modifyOrder.OrigGatewayID)

	s.processTrades(ctx, order.Symbol, trades)

	return nil
}

// Levels exposes aggregated depth for one symbol, bids then asks,
// best-first.
func (s *OMS) Levels(symbol string) (bids, asks []book.LevelInfo) {
	return s.books.Book(symbol).Levels()
}

func (s *OMS) processTrades(ctx context.Context, symbol string, trades []book.Trade) {
	now := time.Now()
	for _, tr := range trades {
		atomic.AddInt64(&totalMatchQty, int64(tr.Bid.Quantity))
		if atomic.AddInt64(&totalMatchCount, 1)%10000 == 0 {
			zap.S().Infof("totalMatchCount: %d, totalMatchQty: %d",
				atomic.LoadInt64(&totalMatchCount), atomic.LoadInt64(&totalMatchQty))
		}

		buyOrder := s.applyTradeLeg(ctx, tr.Bid)
		sellOrder := s.applyTradeLeg(ctx, tr.Ask)

		if s.publisher != nil && buyOrder != nil && sellOrder != nil {
			s.publisher.PublishTrade(ctx, &model.Trade{
				TradeID:     s.newTradeID(),
				Symbol:      symbol,
				BuyOrderID:  buyOrder.OrderID,
				SellOrderID: sellOrder.OrderID,
				BuyPrice:    s.fromBookPrice(tr.Bid.Price),
				SellPrice:   s.fromBookPrice(tr.Ask.Price),
				Quantity:    fromBookQuantity(tr.Bid.Quantity),
				Timestamp:   now,
			})
		}
	}
}

func (s *OMS) applyTradeLeg(ctx context.Context, leg book.TradeInfo) *model.Order {
	order, err := s.GetOrderByBookID(leg.OrderID)
	if err != nil {
		zap.S().Errorf("match bookID=%d not found", leg.OrderID)
		return nil
	}

	order.UpdateTrade(s.fromBookPrice(leg.Price), fromBookQuantity(leg.Quantity))
	s.report(ctx, order, "")
	return order
}

// report snapshots the order into the event stream and notifies the
// gateway.
func (s *OMS) report(ctx context.Context, order *model.Order, origGatewayID string) {
	bkOrder := *order
	ev := model.NewOrderEvent(bkOrder, origGatewayID, time.Now())
	s.eventstore.AddEvent(ev)
	if s.eventPublisher != nil {
		s.eventPublisher.PublishOrderEvent(ctx, ev)
	}
	s.orderGateway.OnOrderReport(ctx, bkOrder)
}

// rejectOrder emits the rejection without ever touching the book.
func (s *OMS) rejectOrder(ctx context.Context, order *model.Order) {
	order.Reject()
	s.report(ctx, order, "")
}

func (s *OMS) newTradeID() string {
	return uuid.NewString()
}
