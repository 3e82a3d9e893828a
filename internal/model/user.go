package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a customer account. A record with an empty PasswordHash is a
// pending registration shell: it exists only to anchor a register code and can
// acquire a password solely through a verified register-purpose code.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Name         string    `json:"name" gorm:"size:255"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255"` // Never expose in JSON
	Address      string    `json:"address" gorm:"size:512"`

	// One-time code slots, one per purpose family. Slots are independent:
	// setting one never clears another. Register and login share the login slot.
	LoginCodeHash     string     `json:"-" gorm:"size:255"`
	LoginCodeExpires  *time.Time `json:"-"`
	ResetCodeHash     string     `json:"-" gorm:"size:255"`
	ResetCodeExpires  *time.Time `json:"-"`
	DeleteCodeHash    string     `json:"-" gorm:"size:255"`
	DeleteCodeExpires *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Registered reports whether the account has completed registration.
func (u *User) Registered() bool {
	return u.PasswordHash != ""
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
