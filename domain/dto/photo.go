package dto

import "time"

type PhotoResponse struct {
	ID                string    `json:"id"`
	EventID           string    `json:"event_id"`
	URL               string    `json:"url"`
	FileName          string    `json:"filename"`
	FingerprintStatus string    `json:"fingerprint_status"`
	CreatedAt         time.Time `json:"created_at"`
}

// MatchedPhotoResponse is the public find-my-photos response element. Its
// shape is the externally observable matching contract.
type MatchedPhotoResponse struct {
	ID         string    `json:"id"`
	EventID    string    `json:"event_id"`
	URL        string    `json:"url"`
	FileName   string    `json:"filename"`
	Similarity float64   `json:"similarity"`
	CreatedAt  time.Time `json:"created_at"`
}
