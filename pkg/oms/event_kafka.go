package oms

import (
	"context"

	"go.uber.org/zap"

	kafkawrapper "github.com/joripage/matchbook-dev/pkg/kafka_wrapper"
	"github.com/joripage/matchbook-dev/pkg/oms/model"
)

// KafkaEventPublisher streams order events to the durable topic the
// persistence worker drains. Keyed by OrderID so one order's events stay
// in sequence on a single partition.
type KafkaEventPublisher struct {
	producer *kafkawrapper.Producer
	topic    string
}

func NewKafkaEventPublisher(producer *kafkawrapper.Producer, topic string) *KafkaEventPublisher {
	return &KafkaEventPublisher{producer: producer, topic: topic}
}

func (p *KafkaEventPublisher) PublishOrderEvent(ctx context.Context, ev *model.OrderEvent) {
	if err := p.producer.PublishJSON(ctx, p.topic, ev.OrderID, ev, nil); err != nil {
		zap.S().Errorw("publish order event", "eventID", ev.EventID, "err", err)
	}
}
