package serviceimpl

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photoevent/domain/models"
	"photoevent/domain/services"
	"photoevent/pkg/config"
	"photoevent/pkg/fingerprint"
)

// stubEventRepo knows only which events exist.
type stubEventRepo struct {
	existing map[uuid.UUID]bool
}

func (r *stubEventRepo) Create(context.Context, *models.Event) error { return nil }
func (r *stubEventRepo) GetByID(context.Context, uuid.UUID) (*models.Event, error) {
	return nil, nil
}
func (r *stubEventRepo) GetByIDAndUser(context.Context, uuid.UUID, uuid.UUID) (*models.Event, error) {
	return nil, nil
}
func (r *stubEventRepo) GetByUser(context.Context, uuid.UUID) ([]models.Event, error) {
	return nil, nil
}
func (r *stubEventRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	return r.existing[id], nil
}
func (r *stubEventRepo) Delete(context.Context, uuid.UUID) error                    { return nil }
func (r *stubEventRepo) IncrementPhotoCount(context.Context, uuid.UUID, int) error  { return nil }
func (r *stubEventRepo) SetPhotoCount(context.Context, uuid.UUID, int64) error      { return nil }
func (r *stubEventRepo) ListIDs(context.Context) ([]uuid.UUID, error)               { return nil, nil }

// stubPhotoRepo serves a fixed photo list per event.
type stubPhotoRepo struct {
	photos map[uuid.UUID][]models.Photo
}

func (r *stubPhotoRepo) Create(context.Context, *models.Photo) error { return nil }
func (r *stubPhotoRepo) GetByID(context.Context, uuid.UUID) (*models.Photo, error) {
	return nil, nil
}
func (r *stubPhotoRepo) GetByEvent(_ context.Context, eventID uuid.UUID) ([]models.Photo, error) {
	return r.photos[eventID], nil
}
func (r *stubPhotoRepo) CountByEvent(context.Context, uuid.UUID) (int64, error) { return 0, nil }
func (r *stubPhotoRepo) CountByEventAndStatus(context.Context, uuid.UUID, models.FingerprintStatus) (int64, error) {
	return 0, nil
}
func (r *stubPhotoRepo) DeleteByEvent(context.Context, uuid.UUID) error { return nil }
func (r *stubPhotoRepo) UpdateFingerprint(context.Context, uuid.UUID, *models.Photo) error {
	return nil
}
func (r *stubPhotoRepo) UpdateFingerprintStatus(context.Context, uuid.UUID, models.FingerprintStatus) error {
	return nil
}
func (r *stubPhotoRepo) GetByFingerprintStatus(context.Context, models.FingerprintStatus, int) ([]models.Photo, error) {
	return nil, nil
}
func (r *stubPhotoRepo) ResetFailedToPending(context.Context, uuid.UUID) (int64, error) {
	return 0, nil
}
func (r *stubPhotoRepo) ResetStuckProcessing(context.Context, time.Time) (int64, error) {
	return 0, nil
}

// stubExtractor returns a canned fingerprint for any input.
type stubExtractor struct {
	fp  *fingerprint.Fingerprint
	err error
}

func (e *stubExtractor) Extract(context.Context, []byte) (*fingerprint.Fingerprint, error) {
	return e.fp, e.err
}

func testPNG(t *testing.T, seed uint8) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 256, 256))
	state := uint32(seed) + 1
	for b := 0; b < 256; b++ {
		state = state*1664525 + 1013904223
		v := uint8(32)
		if state&0x80000000 != 0 {
			v = 224
		}
		bx, by := (b%16)*16, (b/16)*16
		for y := by; y < by+16; y++ {
			for x := bx; x < bx+16; x++ {
				img.SetGray(x, y, color.Gray{Y: v})
			}
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func hashedPhoto(t *testing.T, eventID uuid.UUID, data []byte, createdAt time.Time) models.Photo {
	t.Helper()
	fp, err := fingerprint.NewHashExtractor().Extract(context.Background(), data)
	require.NoError(t, err)
	encoded, err := fp.EncodeHashes()
	require.NoError(t, err)

	return models.Photo{
		ID:                uuid.New(),
		EventID:           eventID,
		FileName:          "photo.png",
		URL:               "http://storage/photo.png",
		Hashes:            &encoded,
		FingerprintStatus: models.FingerprintCompleted,
		CreatedAt:         createdAt,
	}
}

func hashMatchConfig() config.MatchConfig {
	return config.MatchConfig{
		Strategy:      config.StrategyHash,
		HashThreshold: 60,
		TopLogCount:   5,
	}
}

func TestFindMatchesEventNotFound(t *testing.T) {
	svc := NewMatchService(
		&stubEventRepo{existing: map[uuid.UUID]bool{}},
		&stubPhotoRepo{},
		fingerprint.NewHashExtractor(),
		hashMatchConfig(),
	)

	_, err := svc.FindMatches(context.Background(), uuid.New(), testPNG(t, 1))
	assert.ErrorIs(t, err, services.ErrEventNotFound)
}

func TestFindMatchesUndecodableSelfie(t *testing.T) {
	eventID := uuid.New()
	svc := NewMatchService(
		&stubEventRepo{existing: map[uuid.UUID]bool{eventID: true}},
		&stubPhotoRepo{},
		fingerprint.NewHashExtractor(),
		hashMatchConfig(),
	)

	_, err := svc.FindMatches(context.Background(), eventID, []byte("not an image"))
	assert.ErrorIs(t, err, services.ErrSelfieUndecodable)
}

func TestFindMatchesNoFaceInSelfie(t *testing.T) {
	eventID := uuid.New()
	svc := NewMatchService(
		&stubEventRepo{existing: map[uuid.UUID]bool{eventID: true}},
		&stubPhotoRepo{},
		&stubExtractor{err: fingerprint.ErrNoSubjectDetected},
		config.MatchConfig{Strategy: config.StrategyEmbedding, EmbeddingThreshold: 60},
	)

	_, err := svc.FindMatches(context.Background(), eventID, testPNG(t, 1))
	assert.ErrorIs(t, err, services.ErrNoFaceInSelfie)
}

func TestFindMatchesEmptyEvent(t *testing.T) {
	eventID := uuid.New()
	svc := NewMatchService(
		&stubEventRepo{existing: map[uuid.UUID]bool{eventID: true}},
		&stubPhotoRepo{photos: map[uuid.UUID][]models.Photo{}},
		fingerprint.NewHashExtractor(),
		hashMatchConfig(),
	)

	results, err := svc.FindMatches(context.Background(), eventID, testPNG(t, 1))
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestFindMatchesHashStrategy(t *testing.T) {
	eventID := uuid.New()
	selfie := testPNG(t, 42)

	matching := hashedPhoto(t, eventID, selfie, time.Now().Add(-2*time.Hour))
	unrelated := hashedPhoto(t, eventID, testPNG(t, 200), time.Now().Add(-time.Hour))
	pending := models.Photo{
		ID:                uuid.New(),
		EventID:           eventID,
		FingerprintStatus: models.FingerprintPending,
		CreatedAt:         time.Now(),
	}

	svc := NewMatchService(
		&stubEventRepo{existing: map[uuid.UUID]bool{eventID: true}},
		&stubPhotoRepo{photos: map[uuid.UUID][]models.Photo{
			eventID: {matching, unrelated, pending},
		}},
		fingerprint.NewHashExtractor(),
		hashMatchConfig(),
	)

	results, err := svc.FindMatches(context.Background(), eventID, selfie)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, matching.ID, results[0].PhotoID)
	assert.Equal(t, eventID, results[0].EventID)
	assert.Equal(t, matching.URL, results[0].URL)
	assert.Equal(t, matching.FileName, results[0].FileName)
	assert.Equal(t, 100.0, results[0].Similarity)
}

func TestFindMatchesEmbeddingOrderingAndRounding(t *testing.T) {
	eventID := uuid.New()
	now := time.Now()

	embPhoto := func(v []float32, createdAt time.Time) models.Photo {
		vec := pgvector.NewVector(v)
		return models.Photo{
			ID:                uuid.New(),
			EventID:           eventID,
			FingerprintStatus: models.FingerprintCompleted,
			Embedding:         &vec,
			CreatedAt:         createdAt,
		}
	}

	exact := embPhoto([]float32{1, 0}, now.Add(-3*time.Hour))    // 100
	near := embPhoto([]float32{4, 3}, now.Add(-2*time.Hour))    // cos 4/5 -> 80
	diagonal := embPhoto([]float32{1, 1}, now.Add(-time.Hour))   // ~70.71 -> 70.7
	far := embPhoto([]float32{1, 3}, now)                        // ~31.6, cut

	queryFP := fingerprint.NewEmbedding([]float32{1, 0})
	svc := NewMatchService(
		&stubEventRepo{existing: map[uuid.UUID]bool{eventID: true}},
		&stubPhotoRepo{photos: map[uuid.UUID][]models.Photo{
			eventID: {far, diagonal, exact, near},
		}},
		&stubExtractor{fp: &queryFP},
		config.MatchConfig{Strategy: config.StrategyEmbedding, EmbeddingThreshold: 60, TopLogCount: 3},
	)

	results, err := svc.FindMatches(context.Background(), eventID, testPNG(t, 9))
	require.NoError(t, err)

	require.Len(t, results, 3)
	assert.Equal(t, exact.ID, results[0].PhotoID)
	assert.Equal(t, near.ID, results[1].PhotoID)
	assert.Equal(t, diagonal.ID, results[2].PhotoID)

	assert.Equal(t, 100.0, results[0].Similarity)
	assert.Equal(t, 80.0, results[1].Similarity)
	assert.Equal(t, 70.7, results[2].Similarity)
}
