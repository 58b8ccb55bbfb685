package repo

import (
	"context"

	"github.com/joripage/matchbook-dev/pkg/oms/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderEventSQLRepo struct {
	db *gorm.DB
}

func NewOrderEventSQLRepo(db *gorm.DB) *OrderEventSQLRepo {
	return &OrderEventSQLRepo{
		db: db,
	}
}

func (s *OrderEventSQLRepo) dbWithContext(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// Create inserts one event. Replays are expected from an at-least-once
// stream, so conflicts on the event id are ignored.
func (s *OrderEventSQLRepo) Create(ctx context.Context, record *model.OrderEvent) (*model.OrderEvent, error) {
	return record, s.dbWithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(record).Error
}

func (s *OrderEventSQLRepo) BulkCreate(ctx context.Context, records []*model.OrderEvent) ([]*model.OrderEvent, error) {
	return records, s.dbWithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(records).Error
}

func (s *OrderEventSQLRepo) FindByOrderID(ctx context.Context, orderID string) ([]*model.OrderEvent, error) {
	var records []*model.OrderEvent
	err := s.dbWithContext(ctx).Where("order_id = ?", orderID).Order("timestamp asc").Find(&records).Error
	return records, err
}
