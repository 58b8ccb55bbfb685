package worker

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	kafkawrapper "github.com/joripage/matchbook-dev/pkg/kafka_wrapper"
	"github.com/joripage/matchbook-dev/pkg/oms/model"
	"github.com/joripage/matchbook-dev/pkg/oms/repo"
)

// Worker drains the order-event topic into the database. Inserts are
// conflict-ignoring, so redelivery after a crash is harmless.
type Worker struct {
	order      repo.IOrder
	orderEvent repo.IOrderEvent
}

func NewWorker(repo repo.IRepo) *Worker {
	return &Worker{
		order:      repo.Order(),
		orderEvent: repo.OrderEvent(),
	}
}

func (w *Worker) StartConsumer(ctx context.Context, cg *kafkawrapper.ConsumerGroup) error {
	return cg.Run(ctx, w.handleBatch)
}

func (w *Worker) handleBatch(ctx context.Context, msgs []kafkawrapper.Message) error {
	events := make([]*model.OrderEvent, 0, len(msgs))
	for _, msg := range msgs {
		var ev model.OrderEvent
		if err := json.Unmarshal(msg.Value, &ev); err != nil {
			zap.S().Errorw("unmarshal order event", "err", err, "offset", msg.Offset)
			continue
		}
		events = append(events, &ev)
	}
	if len(events) == 0 {
		return nil
	}

	if _, err := w.orderEvent.BulkCreate(ctx, events); err != nil {
		return err
	}

	// the latest event per order also refreshes the order row
	latest := make(map[string]*model.OrderEvent, len(events))
	for _, ev := range events {
		latest[ev.OrderID] = ev
	}
	for _, ev := range latest {
		if _, err := w.order.Upsert(ctx, orderFromEvent(ev)); err != nil {
			return err
		}
	}
	return nil
}

func orderFromEvent(ev *model.OrderEvent) *model.Order {
	return &model.Order{
		OrderID:        ev.OrderID,
		GatewayID:      ev.GatewayID,
		Symbol:         ev.Symbol,
		Side:           ev.Side,
		Status:         ev.Status,
		ExecType:       ev.ExecType,
		Price:          ev.Price,
		Quantity:       ev.Quantity,
		CumQuantity:    ev.CumQuantity,
		LeavesQuantity: ev.LeavesQuantity,
		LastPrice:      ev.LastPrice,
		LastQuantity:   ev.LastQuantity,
		TransactTime:   ev.Timestamp,
	}
}
