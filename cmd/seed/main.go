package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"tastebite/internal/cache"
	"tastebite/internal/config"
	"tastebite/internal/db"
	"tastebite/internal/model"
	"tastebite/internal/repository"
	"tastebite/internal/service"
)

//go:embed seed.json
var seedData []byte

// seedFile mirrors seed.json.
type seedFile struct {
	Restaurants []struct {
		Name     string  `json:"name"`
		Location string  `json:"location"`
		Cuisine  string  `json:"cuisine"`
		Rating   float64 `json:"rating"`
		Menu     []struct {
			Name        string `json:"name"`
			Description string `json:"description"`
			Price       string `json:"price"`
			Image       string `json:"image"`
		} `json:"menu"`
	} `json:"restaurants"`
	MealTypes []struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Image       string `json:"image"`
		Price       string `json:"price"`
	} `json:"meal_types"`
}

func main() {
	log.Println("Starting seed script...")

	_ = godotenv.Load()
	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.Restaurant{}, &model.MenuItem{}, &model.MealType{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	var fixture seedFile
	if err := json.Unmarshal(seedData, &fixture); err != nil {
		log.Fatalf("Failed to parse seed fixture: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	catalog := service.NewRestaurantService(
		repository.NewRestaurantRepository(gormDB),
		repository.NewMealTypeRepository(gormDB),
		cacheClient,
	)

	skipped := 0
	restaurants := make([]model.Restaurant, 0, len(fixture.Restaurants))
	for _, r := range fixture.Restaurants {
		restaurant := model.Restaurant{
			ID:       uuid.New(),
			Name:     r.Name,
			Location: r.Location,
			Cuisine:  r.Cuisine,
			Rating:   r.Rating,
		}
		ok := true
		for _, m := range r.Menu {
			price, err := decimal.NewFromString(m.Price)
			if err != nil {
				log.Printf("Skipping restaurant %s with invalid price: %s", r.Name, m.Price)
				ok = false
				break
			}
			restaurant.Menu = append(restaurant.Menu, model.MenuItem{
				Name:        m.Name,
				Description: m.Description,
				Price:       price,
				Image:       m.Image,
			})
		}
		if !ok {
			skipped++
			continue
		}
		restaurants = append(restaurants, restaurant)
	}

	if len(restaurants) == 0 {
		log.Fatalf("No valid restaurants in fixture; meal types need an owning restaurant")
	}

	mealTypes := make([]model.MealType, 0, len(fixture.MealTypes))
	for i, m := range fixture.MealTypes {
		price, err := decimal.NewFromString(m.Price)
		if err != nil {
			log.Printf("Skipping meal type %s with invalid price: %s", m.Name, m.Price)
			skipped++
			continue
		}
		mealTypes = append(mealTypes, model.MealType{
			Name:         m.Name,
			Description:  m.Description,
			Image:        m.Image,
			Price:        price,
			RestaurantID: restaurants[i%len(restaurants)].ID,
		})
	}

	count, err := catalog.SeedCatalog(context.Background(), restaurants, mealTypes)
	if err != nil {
		log.Fatalf("Seed failed after %d records: %v", count, err)
	}

	if skipped > 0 {
		log.Printf("Skipped %d invalid entries", skipped)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - Restaurants created: %d", len(restaurants))
	log.Printf("  - Meal types created: %d", len(mealTypes))
}
