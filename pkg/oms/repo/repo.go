package repo

import (
	"gorm.io/gorm"
)

type IRepo interface {
	Order() IOrder
	OrderEvent() IOrderEvent
}

// Repo bundles the order-store repositories over the single oms database.
// Sub-repos are built once; they are stateless beyond the shared handle.
type Repo struct {
	order      IOrder
	orderEvent IOrderEvent
}

func NewRepo(omsDB *gorm.DB) IRepo {
	return &Repo{
		order:      NewOrderSQLRepo(omsDB),
		orderEvent: NewOrderEventSQLRepo(omsDB),
	}
}

func (r *Repo) Order() IOrder {
	return r.order
}

func (r *Repo) OrderEvent() IOrderEvent {
	return r.orderEvent
}
