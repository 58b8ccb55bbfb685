package oms

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/joripage/matchbook-dev/pkg/oms/model"
)

type stubGateway struct {
	mu      sync.Mutex
	reports []model.Order
}

func (g *stubGateway) Start(ctx context.Context) error { return nil }

func (g *stubGateway) OnOrderReport(ctx context.Context, order model.Order) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reports = append(g.reports, order)
}

func (g *stubGateway) lastReport() model.Order {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.reports[len(g.reports)-1]
}

func (g *stubGateway) reportFor(gatewayID string) (model.Order, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := len(g.reports) - 1; i >= 0; i-- {
		if g.reports[i].GatewayID == gatewayID {
			return g.reports[i], true
		}
	}
	return model.Order{}, false
}

type stubPublisher struct {
	mu     sync.Mutex
	trades []*model.Trade
}

func (p *stubPublisher) PublishTrade(ctx context.Context, trade *model.Trade) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.trades = append(p.trades, trade)
}

func newTestOMS() (*OMS, *stubGateway) {
	gw := &stubGateway{}
	s := NewOMS(&Config{PriceScale: 2}, gw)
	return s, gw
}

func addOrderReq(gatewayID, symbol string, side model.OrderSide, price string, qty int64) *model.AddOrder {
	return &model.AddOrder{
		GatewayID:    gatewayID,
		Account:      "ACC1",
		Symbol:       symbol,
		Type:         model.OrderTypeLimit,
		Price:        decimal.RequireFromString(price),
		TimeInForce:  model.OrderTimeInForceGTC,
		Side:         side,
		TransactTime: time.Now(),
		Quantity:     decimal.NewFromInt(qty),
	}
}

func TestAddOrderAck(t *testing.T) {
	s, gw := newTestOMS()
	defer s.Stop()
	ctx := context.Background()

	if err := s.AddOrder(ctx, addOrderReq("C1", "VND", model.OrderSideBuy, "101.25", 10)); err != nil {
		t.Fatalf("add order: %v", err)
	}

	report := gw.lastReport()
	if report.Status != model.OrderStatusNew {
		t.Errorf("expected status New, got %s", report.Status)
	}
	if !report.LeavesQuantity.Equal(decimal.NewFromInt(10)) {
		t.Errorf("expected leaves 10, got %s", report.LeavesQuantity)
	}

	bids, _ := s.Levels("VND")
	if len(bids) != 1 || bids[0].Price != 10125 || bids[0].Quantity != 10 {
		t.Errorf("expected bids [(10125,10)], got %+v", bids)
	}
}

func TestAddOrderFullMatch(t *testing.T) {
	s, gw := newTestOMS()
	defer s.Stop()
	ctx := context.Background()

	pub := &stubPublisher{}
	s.RegisterTradePublisher(pub)

	if err := s.AddOrder(ctx, addOrderReq("B1", "VND", model.OrderSideBuy, "100", 10)); err != nil {
		t.Fatalf("add buy: %v", err)
	}
	if err := s.AddOrder(ctx, addOrderReq("S1", "VND", model.OrderSideSell, "100", 10)); err != nil {
		t.Fatalf("add sell: %v", err)
	}

	buyReport, ok := gw.reportFor("B1")
	if !ok || buyReport.Status != model.OrderStatusFilled {
		t.Errorf("expected buy Filled, got %+v", buyReport)
	}
	sellReport, ok := gw.reportFor("S1")
	if !ok || sellReport.Status != model.OrderStatusFilled {
		t.Errorf("expected sell Filled, got %+v", sellReport)
	}

	if len(pub.trades) != 1 {
		t.Fatalf("expected 1 published trade, got %d", len(pub.trades))
	}
	trade := pub.trades[0]
	if !trade.Quantity.Equal(decimal.NewFromInt(10)) {
		t.Errorf("expected trade qty 10, got %s", trade.Quantity)
	}
	if !trade.BuyPrice.Equal(decimal.RequireFromString("100")) {
		t.Errorf("expected buy price 100, got %s", trade.BuyPrice)
	}
}

func TestAddOrderDuplicateGatewayID(t *testing.T) {
	s, _ := newTestOMS()
	defer s.Stop()
	ctx := context.Background()

	if err := s.AddOrder(ctx, addOrderReq("C1", "VND", model.OrderSideBuy, "100", 10)); err != nil {
		t.Fatalf("add order: %v", err)
	}
	if err := s.AddOrder(ctx, addOrderReq("C1", "VND", model.OrderSideBuy, "101", 10)); err != errDuplicateOrder {
		t.Errorf("expected duplicate rejection, got %v", err)
	}
}

func TestAddOrderInvalidTickRejected(t *testing.T) {
	s, gw := newTestOMS()
	defer s.Stop()
	ctx := context.Background()

	// three decimal places cannot land on a two-decimal tick grid
	req := addOrderReq("C1", "VND", model.OrderSideBuy, "100.125", 10)
	if err := s.AddOrder(ctx, req); err != errInvalidPrice {
		t.Fatalf("expected invalid price, got %v", err)
	}

	report := gw.lastReport()
	if report.Status != model.OrderStatusRejected {
		t.Errorf("expected Rejected report, got %s", report.Status)
	}
}

func TestAddOrderIOCRemainderExpires(t *testing.T) {
	s, gw := newTestOMS()
	defer s.Stop()
	ctx := context.Background()

	if err := s.AddOrder(ctx, addOrderReq("B1", "VND", model.OrderSideBuy, "100", 5)); err != nil {
		t.Fatalf("add buy: %v", err)
	}

	req := addOrderReq("S1", "VND", model.OrderSideSell, "100", 10)
	req.TimeInForce = model.OrderTimeInForceIOC
	if err := s.AddOrder(ctx, req); err != nil {
		t.Fatalf("add ioc: %v", err)
	}

	report, _ := gw.reportFor("S1")
	if report.Status != model.OrderStatusExpired {
		t.Errorf("expected Expired, got %s", report.Status)
	}
	if !report.CumQuantity.Equal(decimal.NewFromInt(5)) {
		t.Errorf("expected cum 5, got %s", report.CumQuantity)
	}

	_, asks := s.Levels("VND")
	if len(asks) != 0 {
		t.Errorf("ioc remainder must not rest, got %+v", asks)
	}
}

func TestAddOrderFOKInsufficientDepth(t *testing.T) {
	s, _ := newTestOMS()
	defer s.Stop()
	ctx := context.Background()

	if err := s.AddOrder(ctx, addOrderReq("B1", "VND", model.OrderSideBuy, "100", 5)); err != nil {
		t.Fatalf("add buy: %v", err)
	}

	req := addOrderReq("S1", "VND", model.OrderSideSell, "100", 10)
	req.TimeInForce = model.OrderTimeInForceFOK
	if err := s.AddOrder(ctx, req); err != errOrderRejected {
		t.Errorf("expected rejection, got %v", err)
	}

	bids, _ := s.Levels("VND")
	if len(bids) != 1 || bids[0].Quantity != 5 {
		t.Errorf("resting bid must be untouched, got %+v", bids)
	}
}

func TestCancelOrder(t *testing.T) {
	s, gw := newTestOMS()
	defer s.Stop()
	ctx := context.Background()

	if err := s.AddOrder(ctx, addOrderReq("C1", "VND", model.OrderSideBuy, "100", 10)); err != nil {
		t.Fatalf("add order: %v", err)
	}
	if err := s.CancelOrder(ctx, &model.CancelOrder{GatewayID: "C2", OrigGatewayID: "C1"}); err != nil {
		t.Fatalf("cancel order: %v", err)
	}

	report := gw.lastReport()
	if report.Status != model.OrderStatusCanceled {
		t.Errorf("expected Canceled, got %s", report.Status)
	}
	bids, _ := s.Levels("VND")
	if len(bids) != 0 {
		t.Errorf("expected empty bids, got %+v", bids)
	}
}

func TestCancelUnknownGatewayID(t *testing.T) {
	s, _ := newTestOMS()
	defer s.Stop()

	err := s.CancelOrder(context.Background(), &model.CancelOrder{GatewayID: "C2", OrigGatewayID: "nope"})
	if err != errGatewayIDNotFound {
		t.Errorf("expected gateway id not found, got %v", err)
	}
}

func TestModifyOrderReprice(t *testing.T) {
	s, gw := newTestOMS()
	defer s.Stop()
	ctx := context.Background()

	if err := s.AddOrder(ctx, addOrderReq("C1", "VND", model.OrderSideBuy, "100", 10)); err != nil {
		t.Fatalf("add order: %v", err)
	}
	err := s.ModifyOrder(ctx, &model.ModifyOrder{
		GatewayID:     "C2",
		OrigGatewayID: "C1",
		NewPrice:      decimal.RequireFromString("101"),
		NewQuantity:   decimal.NewFromInt(8),
	})
	if err != nil {
		t.Fatalf("modify order: %v", err)
	}

	report := gw.lastReport()
	if report.Status != model.OrderStatusReplaced {
		t.Errorf("expected Replaced, got %s", report.Status)
	}

	bids, _ := s.Levels("VND")
	if len(bids) != 1 || bids[0].Price != 10100 || bids[0].Quantity != 8 {
		t.Errorf("expected bids [(10100,8)], got %+v", bids)
	}

	// the replacement id resolves to the same order
	if err := s.CancelOrder(ctx, &model.CancelOrder{GatewayID: "C3", OrigGatewayID: "C2"}); err != nil {
		t.Fatalf("cancel replaced order: %v", err)
	}
}

func TestModifyFilledOrderRejected(t *testing.T) {
	s, _ := newTestOMS()
	defer s.Stop()
	ctx := context.Background()

	if err := s.AddOrder(ctx, addOrderReq("B1", "VND", model.OrderSideBuy, "100", 10)); err != nil {
		t.Fatalf("add buy: %v", err)
	}
	if err := s.AddOrder(ctx, addOrderReq("S1", "VND", model.OrderSideSell, "100", 10)); err != nil {
		t.Fatalf("add sell: %v", err)
	}

	err := s.ModifyOrder(ctx, &model.ModifyOrder{
		GatewayID:     "B2",
		OrigGatewayID: "B1",
		NewPrice:      decimal.RequireFromString("101"),
		NewQuantity:   decimal.NewFromInt(20),
	})
	if err != errInvalidOrderStatus {
		t.Errorf("expected invalid status, got %v", err)
	}
}

func TestMarketOrderEmptyBookRejected(t *testing.T) {
	s, _ := newTestOMS()
	defer s.Stop()

	req := addOrderReq("C1", "VND", model.OrderSideBuy, "0", 10)
	req.Type = model.OrderTypeMarket
	if err := s.AddOrder(context.Background(), req); err != errOrderRejected {
		t.Errorf("expected rejection on empty book, got %v", err)
	}
}

func TestPartialFillReports(t *testing.T) {
	s, gw := newTestOMS()
	defer s.Stop()
	ctx := context.Background()

	if err := s.AddOrder(ctx, addOrderReq("B1", "VND", model.OrderSideBuy, "100", 10)); err != nil {
		t.Fatalf("add buy: %v", err)
	}
	if err := s.AddOrder(ctx, addOrderReq("S1", "VND", model.OrderSideSell, "100", 4)); err != nil {
		t.Fatalf("add sell: %v", err)
	}

	report, _ := gw.reportFor("B1")
	if report.Status != model.OrderStatusPartiallyFilled {
		t.Errorf("expected PartiallyFilled, got %s", report.Status)
	}
	if !report.CumQuantity.Equal(decimal.NewFromInt(4)) || !report.LeavesQuantity.Equal(decimal.NewFromInt(6)) {
		t.Errorf("expected cum 4 leaves 6, got cum=%s leaves=%s", report.CumQuantity, report.LeavesQuantity)
	}
}
