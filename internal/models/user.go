package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"    json:"id"`
	Name         string    `gorm:"not null"                json:"name"`
	Email        string    `gorm:"uniqueIndex;not null"    json:"email"`
	Phone        string    `                               json:"phone,omitempty"`
	PasswordHash string    `gorm:"not null"                json:"-"`
	Role         string    `gorm:"not null"                json:"role"`
	CreatedAt    time.Time `                               json:"createdAt"`
	UpdatedAt    time.Time `                               json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
