package oms

import (
	"context"

	"github.com/joripage/matchbook-dev/pkg/oms/model"
)

type OrderGateway interface {
	Start(ctx context.Context) error

	// oms to client
	OnOrderReport(ctx context.Context, order model.Order)
}

// TradePublisher receives every match for downstream market data fan-out.
type TradePublisher interface {
	PublishTrade(ctx context.Context, trade *model.Trade)
}

// EventPublisher receives every order event for durable persistence.
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, ev *model.OrderEvent)
}
