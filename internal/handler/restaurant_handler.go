package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"tastebite/internal/service"
)

// RestaurantHandler serves the browsable catalog.
type RestaurantHandler struct {
	restaurantService service.RestaurantService
}

// NewRestaurantHandler creates a new restaurant handler.
func NewRestaurantHandler(restaurantService service.RestaurantService) *RestaurantHandler {
	return &RestaurantHandler{restaurantService: restaurantService}
}

// ListRestaurants godoc
// @Summary List restaurants with menus
// @Tags restaurants
// @Produce json
// @Success 200 {array} model.Restaurant
// @Failure 500 {object} errors.ErrorResponse
// @Router /restaurants [get]
func (h *RestaurantHandler) ListRestaurants(c echo.Context) error {
	restaurants, err := h.restaurantService.ListRestaurants(c.Request().Context())
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, restaurants)
}

// GetRestaurant godoc
// @Summary Get a restaurant with its menu
// @Tags restaurants
// @Produce json
// @Param id path string true "Restaurant ID"
// @Success 200 {object} model.Restaurant
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /restaurants/{id} [get]
func (h *RestaurantHandler) GetRestaurant(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid restaurant id")
	}
	restaurant, err := h.restaurantService.GetRestaurant(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, restaurant)
}

// ListMealTypes godoc
// @Summary List meal type categories
// @Tags restaurants
// @Produce json
// @Success 200 {array} model.MealType
// @Failure 500 {object} errors.ErrorResponse
// @Router /meal-types [get]
func (h *RestaurantHandler) ListMealTypes(c echo.Context) error {
	mealTypes, err := h.restaurantService.ListMealTypes(c.Request().Context())
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, mealTypes)
}
