package fixgateway

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/quickfixgo/enum"

	"github.com/joripage/matchbook-dev/pkg/logging"
	"github.com/joripage/matchbook-dev/pkg/oms/model"
)

// OrderService is the slice of the matching service the gateway drives.
type OrderService interface {
	AddOrder(ctx context.Context, addOrder *model.AddOrder) error
	CancelOrder(ctx context.Context, cancelOrder *model.CancelOrder) error
	ModifyOrder(ctx context.Context, modifyOrder *model.ModifyOrder) error
}

// FixGateway accepts FIX 4.4 sessions, translates order flow into service
// requests, and pushes execution reports back to the submitting session.
type FixGateway struct {
	cfg         *FixGatewayConfig
	app         *Application
	omsInstance OrderService

	requestMapping sync.Map // ClOrdID -> *quickfix.SessionID
}

type FixGatewayConfig struct {
	ConfigFilepath string
}

func NewFixGateway(cfg *FixGatewayConfig) *FixGateway {
	return &FixGateway{
		cfg:            cfg,
		requestMapping: sync.Map{},
	}
}

func (s *FixGateway) AddOmsInstance(o OrderService) {
	s.omsInstance = o
}

func (s *FixGateway) Start(ctx context.Context) error {
	app, err := startApp(s.cfg.ConfigFilepath, s)
	if err != nil {
		zap.S().Errorf("start fix app err=%v", err)
		return err
	}
	s.app = app
	return nil
}

func (s *FixGateway) Stop() {
	if s.app != nil {
		stopApp(s.app)
	}
}

func (s *FixGateway) AddOrder(ctx context.Context, newOrderSingle *NewOrderSingle) {
	orderType := map[enum.OrdType]model.OrderType{
		enum.OrdType_LIMIT:  model.OrderTypeLimit,
		enum.OrdType_MARKET: model.OrderTypeMarket,
	}[newOrderSingle.OrdType]

	timeInForce := map[enum.TimeInForce]model.OrderTimeInForce{
		enum.TimeInForce_DAY:                 model.OrderTimeInForceDAY,
		enum.TimeInForce_FILL_OR_KILL:        model.OrderTimeInForceFOK,
		enum.TimeInForce_GOOD_TILL_CANCEL:    model.OrderTimeInForceGTC,
		enum.TimeInForce_IMMEDIATE_OR_CANCEL: model.OrderTimeInForceIOC,
	}[newOrderSingle.TimeInForce]

	side := map[enum.Side]model.OrderSide{
		enum.Side_BUY:  model.OrderSideBuy,
		enum.Side_SELL: model.OrderSideSell,
	}[newOrderSingle.Side]

	s.AddRequestToMap(newOrderSingle.ClOrdID, newOrderSingle.SessionID)

	if err := s.omsInstance.AddOrder(ctx, &model.AddOrder{
		GatewayID:    newOrderSingle.ClOrdID,
		Account:      newOrderSingle.Account,
		Symbol:       newOrderSingle.Symbol,
		Type:         orderType,
		Price:        newOrderSingle.Price,
		TimeInForce:  timeInForce,
		Side:         side,
		TransactTime: newOrderSingle.TransactTime,
		Quantity:     newOrderSingle.OrderQty,
	}); err != nil {
		log, _ := logging.GetLogger(ctx)
		log.Warn(ctx, "add order", zap.Error(err))
	}
}

func (s *FixGateway) CancelOrder(ctx context.Context, req *OrderCancelRequest) {
	s.AddRequestToMap(req.ClOrdID, req.SessionID)

	if err := s.omsInstance.CancelOrder(ctx, &model.CancelOrder{
		GatewayID:     req.ClOrdID,
		OrigGatewayID: req.OrigClOrdID,
	}); err != nil {
		log, _ := logging.GetLogger(ctx)
		log.Warn(ctx, "cancel order", zap.Error(err))
	}
}

func (s *FixGateway) ModifyOrder(ctx context.Context, req *OrderCancelReplaceRequest) {
	s.AddRequestToMap(req.ClOrdID, req.SessionID)

	if err := s.omsInstance.ModifyOrder(ctx, &model.ModifyOrder{
		GatewayID:     req.ClOrdID,
		OrigGatewayID: req.OrigClOrdID,
		NewPrice:      req.Price,
		NewQuantity:   req.OrderQty,
	}); err != nil {
		log, _ := logging.GetLogger(ctx)
		log.Warn(ctx, "modify order", zap.Error(err))
	}
}

// OnOrderReport resolves the submitting session and sends an execution
// report. The order value is already a snapshot, safe to hand off.
func (s *FixGateway) OnOrderReport(ctx context.Context, order model.Order) {
	sessionID, err := s.GetSessionByClOrdID(order.GatewayID)
	if err != nil {
		zap.S().Errorf("report clOrdID=%s has no session", order.GatewayID)
		return
	}

	if err := orderReportToExecutionReport(order, sessionID); err != nil {
		zap.S().Errorw("send execution report", "clOrdID", order.GatewayID, "err", err)
	}
}
