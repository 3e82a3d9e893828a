package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tastebite/internal/cart"
	"tastebite/internal/config"
	"tastebite/internal/errors"
	"tastebite/internal/model"
	"tastebite/internal/repository"
)

// OrderService turns cart snapshots into persisted orders.
type OrderService interface {
	Place(ctx context.Context, userID uuid.UUID, items []cart.Item, declaredTotal decimal.Decimal) (*model.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error)
}

type orderService struct {
	orders      repository.OrderRepository
	totalPolicy config.OrderTotalPolicy
}

// NewOrderService creates a new order service.
func NewOrderService(orders repository.OrderRepository, totalPolicy config.OrderTotalPolicy) OrderService {
	return &orderService{orders: orders, totalPolicy: totalPolicy}
}

// Place persists an immutable Pending order from a cart snapshot. Empty item
// lists and non-positive declared totals are rejected before persistence.
// Under the trust policy the declared total is accepted verbatim; under the
// verify policy it must match the recomputed sum of the line items.
func (s *orderService) Place(ctx context.Context, userID uuid.UUID, items []cart.Item, declaredTotal decimal.Decimal) (*model.Order, error) {
	if len(items) == 0 {
		return nil, errors.ErrEmptyOrder
	}
	if declaredTotal.LessThanOrEqual(decimal.Zero) {
		return nil, errors.ErrInvalidTotal
	}

	if s.totalPolicy == config.TotalPolicyVerify {
		computed := decimal.Zero
		for _, item := range items {
			computed = computed.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
		if !computed.Equal(declaredTotal) {
			return nil, errors.ErrInvalidTotal
		}
	}

	order := &model.Order{
		UserID:     userID,
		TotalPrice: declaredTotal,
		Status:     model.OrderStatusPending,
		Items:      make([]model.OrderItem, 0, len(items)),
	}
	for _, item := range items {
		order.Items = append(order.Items, model.OrderItem{
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return order, nil
}

// ListByUser returns the user's orders, newest first.
func (s *orderService) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}
