package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tastebite/internal/model"
)

// RestaurantRepository defines restaurant persistence operations.
type RestaurantRepository interface {
	Create(ctx context.Context, restaurant *model.Restaurant) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Restaurant, error)
	List(ctx context.Context) ([]model.Restaurant, error)
}

type restaurantRepository struct {
	db *gorm.DB
}

// NewRestaurantRepository builds a GORM-backed repository.
func NewRestaurantRepository(db *gorm.DB) RestaurantRepository {
	return &restaurantRepository{db: db}
}

func (r *restaurantRepository) Create(ctx context.Context, restaurant *model.Restaurant) error {
	return r.db.WithContext(ctx).Create(restaurant).Error
}

func (r *restaurantRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Restaurant, error) {
	var restaurant model.Restaurant
	if err := r.db.WithContext(ctx).Preload("Menu").Where("id = ?", id).First(&restaurant).Error; err != nil {
		return nil, err
	}
	return &restaurant, nil
}

func (r *restaurantRepository) List(ctx context.Context) ([]model.Restaurant, error) {
	var restaurants []model.Restaurant
	if err := r.db.WithContext(ctx).Preload("Menu").Find(&restaurants).Error; err != nil {
		return nil, err
	}
	return restaurants, nil
}
