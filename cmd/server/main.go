package main

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"tastebite/docs"
	"tastebite/internal/auth"
	"tastebite/internal/cache"
	"tastebite/internal/cart"
	"tastebite/internal/config"
	"tastebite/internal/db"
	"tastebite/internal/handler"
	"tastebite/internal/mail"
	"tastebite/internal/model"
	"tastebite/internal/otp"
	"tastebite/internal/repository"
	"tastebite/internal/router"
	"tastebite/internal/service"
)

// @title Tastebite API
// @version 1.0
// @description Food ordering API with OTP-gated authentication, session carts and checkout.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	if err := cfg.ValidateMail(); err != nil {
		log.Fatalf("mail config: %v", err)
	}
	if cfg.JWTSecret == "" {
		// Token issuance will fail until a secret is configured.
		log.Println("warning: JWT_SECRET is not set")
	}

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Restaurant{},
		&model.MenuItem{},
		&model.MealType{},
		&model.Order{},
		&model.OrderItem{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	restaurantRepo := repository.NewRestaurantRepository(gormDB)
	mealTypeRepo := repository.NewMealTypeRepository(gormDB)
	orderRepo := repository.NewOrderRepository(gormDB)

	// Initialize auth and delivery components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	sender := mail.NewSMTPSender(cfg)
	engine := otp.NewEngine(userRepo, sender, otp.NewLimiter(cacheClient))
	carts := cart.NewManager()

	// Initialize services
	authService := service.NewAuthService(userRepo, engine, jwtService)
	restaurantService := service.NewRestaurantService(restaurantRepo, mealTypeRepo, cacheClient)
	orderService := service.NewOrderService(orderRepo, cfg.OrderTotalPolicy)
	contactService := service.NewContactService(sender, cfg.AdminEmail)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	restaurantHandler := handler.NewRestaurantHandler(restaurantService)
	cartHandler := handler.NewCartHandler(carts)
	orderHandler := handler.NewOrderHandler(orderService, carts)
	contactHandler := handler.NewContactHandler(contactService)

	// Register routes
	router.Register(
		e,
		cfg,
		authHandler,
		restaurantHandler,
		cartHandler,
		orderHandler,
		contactHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
