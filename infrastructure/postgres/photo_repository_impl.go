package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"photoevent/domain/models"
	"photoevent/domain/repositories"
)

type PhotoRepositoryImpl struct {
	db *gorm.DB
}

func NewPhotoRepository(db *gorm.DB) repositories.PhotoRepository {
	return &PhotoRepositoryImpl{db: db}
}

func (r *PhotoRepositoryImpl) Create(ctx context.Context, photo *models.Photo) error {
	return r.db.WithContext(ctx).Create(photo).Error
}

func (r *PhotoRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Photo, error) {
	var photo models.Photo
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&photo).Error
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

// GetByEvent orders by creation time then id so the ranking tie-break
// (earliest photo first) is stable across identical queries.
func (r *PhotoRepositoryImpl) GetByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Photo, error) {
	var photos []models.Photo
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at ASC, id ASC").
		Find(&photos).Error
	return photos, err
}

func (r *PhotoRepositoryImpl) CountByEvent(ctx context.Context, eventID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Photo{}).Where("event_id = ?", eventID).Count(&count).Error
	return count, err
}

func (r *PhotoRepositoryImpl) CountByEventAndStatus(ctx context.Context, eventID uuid.UUID, status models.FingerprintStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Photo{}).
		Where("event_id = ? AND fingerprint_status = ?", eventID, status).
		Count(&count).Error
	return count, err
}

func (r *PhotoRepositoryImpl) DeleteByEvent(ctx context.Context, eventID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("event_id = ?", eventID).Delete(&models.Photo{}).Error
}

// UpdateFingerprint persists the extracted fingerprint columns and status
// in one write. Only fingerprint fields are touched.
func (r *PhotoRepositoryImpl) UpdateFingerprint(ctx context.Context, id uuid.UUID, photo *models.Photo) error {
	return r.db.WithContext(ctx).Model(&models.Photo{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"hashes":             photo.Hashes,
			"embedding":          photo.Embedding,
			"fingerprint_status": photo.FingerprintStatus,
			"fingerprinted_at":   photo.FingerprintedAt,
		}).Error
}

func (r *PhotoRepositoryImpl) UpdateFingerprintStatus(ctx context.Context, id uuid.UUID, status models.FingerprintStatus) error {
	return r.db.WithContext(ctx).Model(&models.Photo{}).
		Where("id = ?", id).
		Update("fingerprint_status", status).Error
}

func (r *PhotoRepositoryImpl) GetByFingerprintStatus(ctx context.Context, status models.FingerprintStatus, limit int) ([]models.Photo, error) {
	var photos []models.Photo
	err := r.db.WithContext(ctx).
		Where("fingerprint_status = ?", status).
		Order("created_at ASC").
		Limit(limit).
		Find(&photos).Error
	return photos, err
}

func (r *PhotoRepositoryImpl) ResetFailedToPending(ctx context.Context, eventID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Photo{}).
		Where("event_id = ? AND fingerprint_status = ?", eventID, models.FingerprintFailed).
		Update("fingerprint_status", models.FingerprintPending)
	return result.RowsAffected, result.Error
}

// ResetStuckProcessing requeues photos left in processing by a crashed
// worker run.
func (r *PhotoRepositoryImpl) ResetStuckProcessing(ctx context.Context, olderThan time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Photo{}).
		Where("fingerprint_status = ? AND updated_at < ?", models.FingerprintProcessing, olderThan).
		Update("fingerprint_status", models.FingerprintPending)
	return result.RowsAffected, result.Error
}
