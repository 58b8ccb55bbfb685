package repo

import (
	"context"

	"github.com/joripage/matchbook-dev/pkg/oms/model"
)

type IOrder interface {
	Upsert(ctx context.Context, record *model.Order) (*model.Order, error)
	FindByOrderID(ctx context.Context, orderID string) (*model.Order, error)
}

type IOrderEvent interface {
	Create(ctx context.Context, record *model.OrderEvent) (*model.OrderEvent, error)
	BulkCreate(ctx context.Context, records []*model.OrderEvent) ([]*model.OrderEvent, error)
	FindByOrderID(ctx context.Context, orderID string) ([]*model.OrderEvent, error)
}
