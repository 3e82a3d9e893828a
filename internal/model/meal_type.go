package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MealType is a curated meal category shown on the landing pages.
type MealType struct {
	ID           uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	Name         string          `json:"name" gorm:"size:100;not null"`
	Description  string          `json:"description" gorm:"size:500;not null"`
	Image        string          `json:"image" gorm:"size:512;not null"`
	Price        decimal.Decimal `json:"price" gorm:"type:decimal(20,2);not null"`
	RestaurantID uuid.UUID       `json:"restaurant_id" gorm:"type:char(36);not null;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (m *MealType) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
