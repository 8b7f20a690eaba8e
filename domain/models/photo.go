package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type FingerprintStatus string

const (
	FingerprintPending    FingerprintStatus = "pending"
	FingerprintProcessing FingerprintStatus = "processing"
	FingerprintCompleted  FingerprintStatus = "completed"
	FingerprintFailed     FingerprintStatus = "failed"
)

// Photo is one stored image in an event. Its fingerprint is computed once
// at (or shortly after) upload and never recomputed; a re-upload creates a
// new Photo. A photo without a completed fingerprint simply never appears
// in match results.
type Photo struct {
	ID      uuid.UUID `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	EventID uuid.UUID `gorm:"type:uuid;not null;index"`

	// File info
	FileName  string `gorm:"not null"` // original display name
	ObjectKey string `gorm:"not null"` // key in object storage
	URL       string `gorm:"not null"` // public retrieval URL
	MimeType  string
	FileSize  int64

	// Fingerprint; exactly one of the two columns is populated, according
	// to the deployment's match strategy. Hashes holds the JSON map of
	// algorithm name to hex bit string.
	Hashes    *string          `gorm:"type:jsonb"`
	Embedding *pgvector.Vector `gorm:"type:vector(512)"`

	FingerprintStatus FingerprintStatus `gorm:"default:'pending';index"`
	FingerprintedAt   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relations
	Event Event `gorm:"foreignKey:EventID"`
}

func (Photo) TableName() string {
	return "photos"
}
