package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an event host. Attendees never have accounts.
type User struct {
	ID           uuid.UUID `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Email        string    `gorm:"uniqueIndex;not null"`
	Name         string    `gorm:"not null"`
	PasswordHash string    `gorm:"not null"`

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relations
	Events []Event `gorm:"foreignKey:UserID"`
}

func (User) TableName() string {
	return "users"
}
