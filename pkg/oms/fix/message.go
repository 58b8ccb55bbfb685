package fixgateway

import (
	"sync"

	"github.com/google/uuid"
	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/fix44/executionreport"
	"github.com/quickfixgo/quickfix"

	"github.com/joripage/matchbook-dev/pkg/oms/model"
)

var (
	OrderStatusMapping map[model.OrderStatus]enum.OrdStatus = map[model.OrderStatus]enum.OrdStatus{
		model.OrderStatusNew:             enum.OrdStatus_NEW,
		model.OrderStatusPartiallyFilled: enum.OrdStatus_PARTIALLY_FILLED,
		model.OrderStatusFilled:          enum.OrdStatus_FILLED,
		model.OrderStatusDoneForDay:      enum.OrdStatus_DONE_FOR_DAY,
		model.OrderStatusCanceled:        enum.OrdStatus_CANCELED,
		model.OrderStatusReplaced:        enum.OrdStatus_REPLACED,
		model.OrderStatusRejected:        enum.OrdStatus_REJECTED,
		model.OrderStatusPendingNew:      enum.OrdStatus_PENDING_NEW,
		model.OrderStatusExpired:         enum.OrdStatus_EXPIRED,
	}

	ExecTypeMapping map[model.OrderExecType]enum.ExecType = map[model.OrderExecType]enum.ExecType{
		model.ExecTypeNew:      enum.ExecType_NEW,
		model.ExecTypeTrade:    enum.ExecType_TRADE,
		model.ExecTypeCanceled: enum.ExecType_CANCELED,
		model.ExecTypeReplaced: enum.ExecType_REPLACED,
		model.ExecTypeRejected: enum.ExecType_REJECTED,
		model.ExecTypeExpired:  enum.ExecType_EXPIRED,
	}

	SideMapping map[model.OrderSide]enum.Side = map[model.OrderSide]enum.Side{
		model.OrderSideBuy:  enum.Side_BUY,
		model.OrderSideSell: enum.Side_SELL,
	}

	TimeInForceMapping map[model.OrderTimeInForce]enum.TimeInForce = map[model.OrderTimeInForce]enum.TimeInForce{
		model.OrderTimeInForceDAY: enum.TimeInForce_DAY,
		model.OrderTimeInForceIOC: enum.TimeInForce_IMMEDIATE_OR_CANCEL,
		model.OrderTimeInForceFOK: enum.TimeInForce_FILL_OR_KILL,
		model.OrderTimeInForceGTC: enum.TimeInForce_GOOD_TILL_CANCEL,
	}
)

// MessagePool recycles quickfix messages so a busy report stream does not
// re-allocate header, body and trailer maps on every send.
type MessagePool struct {
	pool sync.Pool
}

func NewMessagePool() *MessagePool {
	return &MessagePool{
		pool: sync.Pool{
			New: func() interface{} {
				m := quickfix.NewMessage()
				resetMessage(m)
				return m
			},
		},
	}
}

// Get returns a reset message ready to fill.
func (mp *MessagePool) Get() *quickfix.Message {
	m := mp.pool.Get().(*quickfix.Message)
	resetMessage(m)
	return m
}

// Put resets before pooling so stale fields cannot leak into the next send.
func (mp *MessagePool) Put(m *quickfix.Message) {
	resetMessage(m)
	mp.pool.Put(m)
}

func resetMessage(m *quickfix.Message) {
	m.Header.Init()
	m.Body.Init()
	m.Trailer.Init()
	m.Header.Clear()
	m.Body.Clear()
	m.Trailer.Clear()
}

var execReportPool = NewMessagePool()

func orderReportToExecutionReport(order model.Order, sessionID *quickfix.SessionID) error {
	msg := execReportPool.Get()
	fillExecutionReport(msg, order)

	err := quickfix.SendToTarget(msg, *sessionID)
	execReportPool.Put(msg)
	return err
}

func fillExecutionReport(msg *quickfix.Message, order model.Order) {
	execReportMsg := executionreport.FromMessage(msg)

	execReportMsg.SetMsgType(enum.MsgType_EXECUTION_REPORT)
	execReportMsg.SetOrderID(order.OrderID)
	execReportMsg.SetExecID(uuid.NewString())
	execReportMsg.SetExecType(ExecTypeMapping[order.ExecType])
	execReportMsg.SetOrdStatus(OrderStatusMapping[order.Status])
	execReportMsg.SetSymbol(order.Symbol)
	execReportMsg.SetSide(SideMapping[order.Side])
	execReportMsg.SetLeavesQty(order.LeavesQuantity, 0)
	execReportMsg.SetCumQty(order.CumQuantity, 0)
	execReportMsg.SetAvgPx(order.AvgPrice, 2)

	execReportMsg.SetClOrdID(order.GatewayID)
	execReportMsg.SetAccount(order.Account)
	execReportMsg.SetOrderQty(order.Quantity, 0)
	execReportMsg.SetPrice(order.Price, 2)
	execReportMsg.SetTimeInForce(TimeInForceMapping[order.TimeInForce])
	execReportMsg.SetTransactTime(order.TransactTime)
	execReportMsg.SetLastQty(order.LastQuantity, 0)
	execReportMsg.SetLastPx(order.LastPrice, 2)
}
