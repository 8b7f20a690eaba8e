package dto

import "time"

type CreateEventRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Date        string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

type EventResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Date        string    `json:"date"`
	UserID      string    `json:"user_id,omitempty"`
	PhotoCount  int       `json:"photo_count"`
	QRURL       string    `json:"qr_url"`
	CreatedAt   time.Time `json:"created_at"`
}
