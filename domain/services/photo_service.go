package services

import (
	"context"

	"github.com/google/uuid"

	"photoevent/domain/models"
)

// PhotoUpload is one file from a multipart upload request.
type PhotoUpload struct {
	FileName    string
	ContentType string
	Data        []byte
}

// PhotoService handles photo uploads and listing. Fingerprints are computed
// exactly once per photo at upload time (hash strategy) or shortly after by
// the background worker (embedding strategy).
type PhotoService interface {
	UploadPhotos(ctx context.Context, userID, eventID uuid.UUID, uploads []PhotoUpload) ([]models.Photo, error)
	ListPhotos(ctx context.Context, userID, eventID uuid.UUID) ([]models.Photo, error)
	ListPublicPhotos(ctx context.Context, eventID uuid.UUID) ([]models.Photo, error)

	// RetryFailedFingerprints requeues failed extractions for the worker.
	RetryFailedFingerprints(ctx context.Context, userID, eventID uuid.UUID) (int64, error)

	// ProcessingStatus reports fingerprint progress for an event.
	ProcessingStatus(ctx context.Context, eventID uuid.UUID) (*FingerprintProgress, error)
}

// FingerprintProgress is a snapshot of fingerprint extraction progress.
type FingerprintProgress struct {
	Total      int64 `json:"total"`
	Pending    int64 `json:"pending"`
	Processing int64 `json:"processing"`
	Completed  int64 `json:"completed"`
	Failed     int64 `json:"failed"`
}

// Done reports whether no photos are waiting on extraction.
func (p FingerprintProgress) Done() bool {
	return p.Pending == 0 && p.Processing == 0
}
