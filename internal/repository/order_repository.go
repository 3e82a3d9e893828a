package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tastebite/internal/model"
)

// OrderRepository defines order persistence operations. Orders are write-once:
// there is no update method.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error)
}

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository builds a GORM-backed repository.
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// ListByUser returns the user's orders, newest first.
func (r *orderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	var orders []model.Order
	if err := r.db.WithContext(ctx).Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
