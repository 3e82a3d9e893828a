package repository

import (
	"context"

	"gorm.io/gorm"

	"tastebite/internal/model"
)

// MealTypeRepository defines meal type persistence operations.
type MealTypeRepository interface {
	Create(ctx context.Context, mealType *model.MealType) error
	List(ctx context.Context) ([]model.MealType, error)
}

type mealTypeRepository struct {
	db *gorm.DB
}

// NewMealTypeRepository builds a GORM-backed repository.
func NewMealTypeRepository(db *gorm.DB) MealTypeRepository {
	return &mealTypeRepository{db: db}
}

func (r *mealTypeRepository) Create(ctx context.Context, mealType *model.MealType) error {
	return r.db.WithContext(ctx).Create(mealType).Error
}

func (r *mealTypeRepository) List(ctx context.Context) ([]model.MealType, error) {
	var mealTypes []model.MealType
	if err := r.db.WithContext(ctx).Find(&mealTypes).Error; err != nil {
		return nil, err
	}
	return mealTypes, nil
}
