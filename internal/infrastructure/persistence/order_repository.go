package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/babel-30/sugarplum-backend/internal/domain/order"
	"github.com/babel-30/sugarplum-backend/internal/domain/shared"
)

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Create inserts a new order record
func (r *GormOrderRepository) Create(ctx context.Context, o *order.Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

// FindByID finds an order by its local id
func (r *GormOrderRepository) FindByID(ctx context.Context, id uint) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// ListRecent returns the newest orders first, capped at limit
func (r *GormOrderRepository) ListRecent(ctx context.Context, limit int) ([]order.Order, error) {
	if limit <= 0 {
		limit = 50
	}
	var orders []order.Order
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Update persists changes to an existing order
func (r *GormOrderRepository) Update(ctx context.Context, o *order.Order) error {
	result := r.db.WithContext(ctx).Save(o)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormOrderRepository implements order.Repository
var _ order.Repository = (*GormOrderRepository)(nil)
