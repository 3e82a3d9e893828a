package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"tastebite/internal/cart"
)

// CartHandler exposes the session-scoped cart.
type CartHandler struct {
	carts *cart.Manager
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(carts *cart.Manager) *CartHandler {
	return &CartHandler{carts: carts}
}

// AddItemRequest merges an item into the cart.
type AddItemRequest struct {
	Name         string `json:"name" validate:"required"`
	RestaurantID string `json:"restaurant_id" validate:"required,uuid"`
	Price        string `json:"price" validate:"required"`
	Quantity     int    `json:"quantity"`
}

// UpdateQuantityRequest sets the quantity of an existing line.
type UpdateQuantityRequest struct {
	Name         string `json:"name" validate:"required"`
	RestaurantID string `json:"restaurant_id" validate:"required,uuid"`
	Quantity     int    `json:"quantity"`
}

// RemoveItemRequest deletes a line.
type RemoveItemRequest struct {
	Name         string `json:"name" validate:"required"`
	RestaurantID string `json:"restaurant_id" validate:"required,uuid"`
}

// CartResponse is the cart snapshot plus its recomputed total.
type CartResponse struct {
	Items      []cart.Item `json:"items"`
	TotalPrice string      `json:"total_price"`
}

func cartResponse(c *cart.Cart) CartResponse {
	return CartResponse{
		Items:      c.Snapshot(),
		TotalPrice: c.Total().String(),
	}
}

// GetCart godoc
// @Summary Get the current cart
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} CartResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /cart [get]
func (h *CartHandler) GetCart(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cartResponse(h.carts.Get(userID)))
}

// AddItem godoc
// @Summary Add an item to the cart, merging on (name, restaurant)
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AddItemRequest true "Item"
// @Success 200 {object} CartResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /cart [post]
func (h *CartHandler) AddItem(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req AddItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	restaurantID, err := uuid.Parse(req.RestaurantID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid restaurant id")
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid price")
	}

	userCart := h.carts.Get(userID)
	userCart.Add(cart.Item{
		Name:         req.Name,
		RestaurantID: restaurantID,
		Price:        price,
		Quantity:     req.Quantity,
	})
	return c.JSON(http.StatusOK, cartResponse(userCart))
}

// UpdateQuantity godoc
// @Summary Set the quantity of an existing cart line
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateQuantityRequest true "Line and quantity"
// @Success 200 {object} CartResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /cart [put]
func (h *CartHandler) UpdateQuantity(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req UpdateQuantityRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	restaurantID, err := uuid.Parse(req.RestaurantID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid restaurant id")
	}

	userCart := h.carts.Get(userID)
	userCart.SetQuantity(req.Name, restaurantID, req.Quantity)
	return c.JSON(http.StatusOK, cartResponse(userCart))
}

// RemoveItem godoc
// @Summary Remove a line from the cart
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RemoveItemRequest true "Line key"
// @Success 200 {object} CartResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /cart/item [delete]
func (h *CartHandler) RemoveItem(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req RemoveItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	restaurantID, err := uuid.Parse(req.RestaurantID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid restaurant id")
	}

	userCart := h.carts.Get(userID)
	userCart.Remove(req.Name, restaurantID)
	return c.JSON(http.StatusOK, cartResponse(userCart))
}

// ClearCart godoc
// @Summary Empty the cart
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} CartResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /cart [delete]
func (h *CartHandler) ClearCart(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	userCart := h.carts.Get(userID)
	userCart.Clear()
	return c.JSON(http.StatusOK, cartResponse(userCart))
}
