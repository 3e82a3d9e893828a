package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tastebite/internal/cache"
	"tastebite/internal/errors"
	"tastebite/internal/model"
	"tastebite/internal/repository"
)

const (
	restaurantListCacheKey = "restaurants:all"
	mealTypeListCacheKey   = "meal_types:all"
	catalogCacheTTL        = 5 * time.Minute
)

// RestaurantService serves the browsable catalog: restaurants, menus and meal
// types. Reads go through the redis cache; the catalog changes only via
// seeding, so staleness is bounded by the TTL.
type RestaurantService interface {
	ListRestaurants(ctx context.Context) ([]model.Restaurant, error)
	GetRestaurant(ctx context.Context, id uuid.UUID) (*model.Restaurant, error)
	ListMealTypes(ctx context.Context) ([]model.MealType, error)
	SeedCatalog(ctx context.Context, restaurants []model.Restaurant, mealTypes []model.MealType) (int, error)
}

type restaurantService struct {
	restaurants repository.RestaurantRepository
	mealTypes   repository.MealTypeRepository
	cache       *cache.Client
}

// NewRestaurantService creates a new restaurant service.
func NewRestaurantService(restaurants repository.RestaurantRepository, mealTypes repository.MealTypeRepository, cache *cache.Client) RestaurantService {
	return &restaurantService{
		restaurants: restaurants,
		mealTypes:   mealTypes,
		cache:       cache,
	}
}

// ListRestaurants returns all restaurants with menus, cached.
func (s *restaurantService) ListRestaurants(ctx context.Context) ([]model.Restaurant, error) {
	if data, _ := s.cache.Get(ctx, restaurantListCacheKey); data != nil {
		var cached []model.Restaurant
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	restaurants, err := s.restaurants.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}

	if payload, err := json.Marshal(restaurants); err == nil {
		_ = s.cache.Set(ctx, restaurantListCacheKey, payload, catalogCacheTTL)
	}
	return restaurants, nil
}

// GetRestaurant returns one restaurant with its menu.
func (s *restaurantService) GetRestaurant(ctx context.Context, id uuid.UUID) (*model.Restaurant, error) {
	restaurant, err := s.restaurants.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("get restaurant: %w", err)
	}
	return restaurant, nil
}

// ListMealTypes returns all meal type categories, cached.
func (s *restaurantService) ListMealTypes(ctx context.Context) ([]model.MealType, error) {
	if data, _ := s.cache.Get(ctx, mealTypeListCacheKey); data != nil {
		var cached []model.MealType
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	mealTypes, err := s.mealTypes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list meal types: %w", err)
	}

	if payload, err := json.Marshal(mealTypes); err == nil {
		_ = s.cache.Set(ctx, mealTypeListCacheKey, payload, catalogCacheTTL)
	}
	return mealTypes, nil
}

// SeedCatalog loads restaurants and meal types into the store and invalidates
// the cached lists.
func (s *restaurantService) SeedCatalog(ctx context.Context, restaurants []model.Restaurant, mealTypes []model.MealType) (int, error) {
	count := 0
	for i := range restaurants {
		if err := s.restaurants.Create(ctx, &restaurants[i]); err != nil {
			return count, fmt.Errorf("seed restaurant %s: %w", restaurants[i].Name, err)
		}
		count++
	}
	for i := range mealTypes {
		if err := s.mealTypes.Create(ctx, &mealTypes[i]); err != nil {
			return count, fmt.Errorf("seed meal type %s: %w", mealTypes[i].Name, err)
		}
		count++
	}

	_ = s.cache.Delete(ctx, restaurantListCacheKey)
	_ = s.cache.Delete(ctx, mealTypeListCacheKey)
	return count, nil
}
