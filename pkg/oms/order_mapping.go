package oms

import (
	"time"

	"github.com/joripage/matchbook-dev/pkg/book"
	"github.com/joripage/matchbook-dev/pkg/oms/model"
)

func (s *OMS) AddOrderToMap(order *model.Order, bookID book.OrderID) {
	s.orderIDMapping.Store(order.OrderID, order)
	s.bookIDMapping.Store(bookID, order)
	s.bookIDByOrder.Store(order.OrderID, bookID)
}

func (s *OMS) GetOrderByOrderID(orderID string) (*model.Order, error) {
	order, ok := s.orderIDMapping.Load(orderID)
	if !ok {
		return nil, errOrderIDNotFound
	}
	return order.(*model.Order), nil
}

func (s *OMS) GetOrderByBookID(bookID book.OrderID) (*model.Order, error) {
	order, ok := s.bookIDMapping.Load(bookID)
	if !ok {
		return nil, errOrderIDNotFound
	}
	return order.(*model.Order), nil
}

func (s *OMS) GetBookID(orderID string) (book.OrderID, bool) {
	id, ok := s.bookIDByOrder.Load(orderID)
	if !ok {
		return 0, false
	}
	return id.(book.OrderID), true
}

func (s *OMS) DeleteOrderByOrderID(orderID string) {
	if bookID, ok := s.bookIDByOrder.Load(orderID); ok {
		s.bookIDMapping.Delete(bookID)
	}
	s.bookIDByOrder.Delete(orderID)
	s.orderIDMapping.Delete(orderID)
}

func (s *OMS) startCleaner(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

// cleanup drops terminal orders from the hot maps and the id chain.
func (s *OMS) cleanup() {
	s.orderIDMapping.Range(func(k, v any) bool {
		order := v.(*model.Order)
		if order.IsEnd() {
			s.DeleteOrderByOrderID(order.OrderID)
			s.eventstore.DeleteChainByOrderID(order.OrderID)
		}
		return true
	})
}
