package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Restaurant is a browsable restaurant with an embedded menu.
type Restaurant struct {
	ID       uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Name     string    `json:"name" gorm:"size:255;not null;index"`
	Location string    `json:"location" gorm:"size:255"`
	Cuisine  string    `json:"cuisine" gorm:"size:100"`
	Rating   float64   `json:"rating" gorm:"default:0"`

	Menu []MenuItem `json:"menu,omitempty" gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MenuItem is a single dish offered by a restaurant.
type MenuItem struct {
	ID           uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	RestaurantID uuid.UUID       `json:"restaurant_id" gorm:"type:char(36);not null;index"`
	Name         string          `json:"name" gorm:"size:255;not null"`
	Description  string          `json:"description" gorm:"size:512"`
	Price        decimal.Decimal `json:"price" gorm:"type:decimal(20,2);not null"`
	Image        string          `json:"image" gorm:"size:512"`
}

// BeforeCreate sets UUID before creating the record.
func (r *Restaurant) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// BeforeCreate sets UUID before creating the record.
func (m *MenuItem) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
