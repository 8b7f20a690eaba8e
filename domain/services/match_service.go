package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Selfie failures abort the whole match request; handlers translate them
// into distinguishable client errors. ErrNoFaceInSelfie is the
// user-actionable one ("retake your photo").
var (
	ErrSelfieUndecodable = errors.New("selfie cannot be decoded as an image")
	ErrNoFaceInSelfie    = errors.New("no face detected in selfie")
)

// MatchResult is one photo accepted by the ranking policy. Derived fresh on
// every query, never persisted.
type MatchResult struct {
	PhotoID    uuid.UUID `json:"id"`
	EventID    uuid.UUID `json:"event_id"`
	URL        string    `json:"url"`
	FileName   string    `json:"filename"`
	Similarity float64   `json:"similarity"` // 0..100, one decimal
	CreatedAt  time.Time `json:"created_at"`
}

// MatchService is the matching orchestrator: one selfie against one
// event's photo collection.
type MatchService interface {
	// FindMatches returns the event's photos likely containing the selfie
	// subject, ordered by similarity descending (ties by photo creation
	// order). An empty slice is a valid outcome. Fails with
	// ErrEventNotFound, ErrSelfieUndecodable or ErrNoFaceInSelfie.
	FindMatches(ctx context.Context, eventID uuid.UUID, selfie []byte) ([]MatchResult, error)
}
