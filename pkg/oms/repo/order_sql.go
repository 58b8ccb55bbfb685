package repo

import (
	"context"

	"github.com/joripage/matchbook-dev/pkg/oms/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderSQLRepo struct {
	db *gorm.DB
}

func NewOrderSQLRepo(db *gorm.DB) *OrderSQLRepo {
	return &OrderSQLRepo{
		db: db,
	}
}

func (s *OrderSQLRepo) dbWithContext(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// Upsert writes the latest order state keyed by OrderID.
func (s *OrderSQLRepo) Upsert(ctx context.Context, record *model.Order) (*model.Order, error) {
	err := s.dbWithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "order_id"}},
		UpdateAll: true,
	}).Create(record).Error
	return record, err
}

func (s *OrderSQLRepo) FindByOrderID(ctx context.Context, orderID string) (*model.Order, error) {
	var record model.Order
	err := s.dbWithContext(ctx).Where("order_id = ?", orderID).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}
