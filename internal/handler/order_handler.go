package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"tastebite/internal/cart"
	"tastebite/internal/errors"
	"tastebite/internal/service"
)

// OrderHandler handles checkout and order listing.
type OrderHandler struct {
	orderService service.OrderService
	carts        *cart.Manager
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(orderService service.OrderService, carts *cart.Manager) *OrderHandler {
	return &OrderHandler{orderService: orderService, carts: carts}
}

// PlaceOrderRequest declares the checkout total. When TotalPrice is empty the
// cart's recomputed total is used.
type PlaceOrderRequest struct {
	TotalPrice string `json:"total_price,omitempty"`
}

// PlaceOrder godoc
// @Summary Place an order from the current cart
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PlaceOrderRequest true "Declared total"
// @Success 201 {object} model.Order
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /orders [post]
func (h *OrderHandler) PlaceOrder(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req PlaceOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	userCart := h.carts.Get(userID)
	snapshot := userCart.Snapshot()

	// Zero-quantity lines are "marked for removal"; they must be resolved
	// before checkout, not silently dropped.
	for _, item := range snapshot {
		if item.Quantity == 0 {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "cart contains items with zero quantity",
				Code:  "INVALID_ORDER",
			})
		}
	}

	declaredTotal := userCart.Total()
	if req.TotalPrice != "" {
		declaredTotal, err = decimal.NewFromString(req.TotalPrice)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid total price")
		}
	}

	order, err := h.orderService.Place(c.Request().Context(), userID, snapshot, declaredTotal)
	if err != nil {
		return domainError(err)
	}

	// The order consumed the cart.
	h.carts.Drop(userID)
	return c.JSON(http.StatusCreated, order)
}

// ListOrders godoc
// @Summary List the user's orders, newest first
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Order
// @Failure 401 {object} errors.ErrorResponse
// @Router /orders [get]
func (h *OrderHandler) ListOrders(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	orders, err := h.orderService.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, orders)
}
