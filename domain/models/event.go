package models

import (
	"time"

	"github.com/google/uuid"
)

// Event is a host-owned photo collection. Deleting an event cascades to its
// photos and their stored objects.
type Event struct {
	ID          uuid.UUID `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"not null"`
	Description string
	Date        string // display date, YYYY-MM-DD

	// Denormalized count of photos, maintained on upload/delete.
	PhotoCount int `gorm:"default:0"`

	// Public attendee entry point, rendered as a QR code by the frontend.
	QRURL string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relations
	User   User    `gorm:"foreignKey:UserID"`
	Photos []Photo `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
}

func (Event) TableName() string {
	return "events"
}
