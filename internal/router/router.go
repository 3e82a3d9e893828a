package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"tastebite/internal/auth"
	"tastebite/internal/config"
	"tastebite/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	restaurantHandler *handler.RestaurantHandler,
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
	contactHandler *handler.ContactHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/send", contactHandler.Send)
	api.GET("/restaurants", restaurantHandler.ListRestaurants)
	api.GET("/restaurants/:id", restaurantHandler.GetRestaurant)
	api.GET("/meal-types", restaurantHandler.ListMealTypes)

	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/send-otp-register", authHandler.SendRegisterOTP)
	api.POST("/auth/send-otp-login", authHandler.SendLoginOTP)
	api.POST("/auth/send-reset-otp", authHandler.SendResetOTP)
	api.POST("/auth/reset-password", authHandler.ResetPassword)

	// Secured routes (require a valid session token). The middleware yields a
	// uniform 401 for missing, malformed, expired or badly signed tokens.
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
	}))

	secured.GET("/auth/me", authHandler.Me)
	secured.PUT("/auth/update-address", authHandler.UpdateAddress)
	secured.POST("/auth/send-delete-otp", authHandler.SendDeleteOTP)
	secured.DELETE("/auth/delete-account", authHandler.DeleteAccount)

	secured.GET("/cart", cartHandler.GetCart)
	secured.POST("/cart", cartHandler.AddItem)
	secured.PUT("/cart", cartHandler.UpdateQuantity)
	secured.DELETE("/cart/item", cartHandler.RemoveItem)
	secured.DELETE("/cart", cartHandler.ClearCart)

	secured.POST("/orders", orderHandler.PlaceOrder)
	secured.GET("/orders", orderHandler.ListOrders)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
