package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatus represents the status of an order.
type OrderStatus string

const (
	OrderStatusPending OrderStatus = "Pending"
)

// Order is an immutable snapshot of a checkout. Once placed it is never
// mutated; reordering creates new cart entries, not an order edit.
type Order struct {
	ID         uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	UserID     uuid.UUID       `json:"user_id" gorm:"type:char(36);not null;index"`
	Items      []OrderItem     `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	TotalPrice decimal.Decimal `json:"total_price" gorm:"type:decimal(20,2);not null"`
	Status     OrderStatus     `json:"status" gorm:"type:varchar(20);not null;default:'Pending'"`
	CreatedAt  time.Time       `json:"created_at"`
}

// OrderItem is a frozen name/price/quantity triple within an order.
type OrderItem struct {
	ID       uuid.UUID       `json:"-" gorm:"type:char(36);primaryKey"`
	OrderID  uuid.UUID       `json:"-" gorm:"type:char(36);not null;index"`
	Name     string          `json:"name" gorm:"size:255;not null"`
	Price    decimal.Decimal `json:"price" gorm:"type:decimal(20,2);not null"`
	Quantity int             `json:"quantity" gorm:"not null"`
}

// BeforeCreate sets UUID before creating the record.
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// BeforeCreate sets UUID before creating the record.
func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
