package serviceimpl

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"photoevent/domain/models"
	"photoevent/domain/repositories"
	"photoevent/domain/services"
	"photoevent/pkg/config"
	"photoevent/pkg/fingerprint"
	"photoevent/pkg/logger"
	"photoevent/pkg/observability"
)

// MatchServiceImpl runs the selfie-against-event pipeline: extract the
// query fingerprint, load the event's candidate fingerprints, rank, map
// back to photos. Results are derived fresh per query and never stored.
type MatchServiceImpl struct {
	eventRepo repositories.EventRepository
	photoRepo repositories.PhotoRepository
	extractor fingerprint.Extractor
	match     config.MatchConfig
}

func NewMatchService(
	eventRepo repositories.EventRepository,
	photoRepo repositories.PhotoRepository,
	extractor fingerprint.Extractor,
	match config.MatchConfig,
) services.MatchService {
	return &MatchServiceImpl{
		eventRepo: eventRepo,
		photoRepo: photoRepo,
		extractor: extractor,
		match:     match,
	}
}

func (s *MatchServiceImpl) FindMatches(ctx context.Context, eventID uuid.UUID, selfie []byte) ([]services.MatchResult, error) {
	start := time.Now()

	exists, err := s.eventRepo.Exists(ctx, eventID)
	if err != nil {
		observability.MatchRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to check event: %w", err)
	}
	if !exists {
		observability.MatchRequests.WithLabelValues("event_not_found").Inc()
		return nil, services.ErrEventNotFound
	}

	query, err := s.extractor.Extract(ctx, selfie)
	if err != nil {
		observability.MatchRequests.WithLabelValues("bad_selfie").Inc()
		switch {
		case errors.Is(err, fingerprint.ErrUndecodable):
			return nil, services.ErrSelfieUndecodable
		case errors.Is(err, fingerprint.ErrNoSubjectDetected):
			return nil, services.ErrNoFaceInSelfie
		default:
			return nil, fmt.Errorf("selfie fingerprint extraction: %w", err)
		}
	}

	photos, err := s.photoRepo.GetByEvent(ctx, eventID)
	if err != nil {
		observability.MatchRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to load event photos: %w", err)
	}

	candidates, byID := s.buildCandidates(photos)
	observability.MatchCandidates.Observe(float64(len(candidates)))

	// Rank unthresholded first so near-misses show up in the tuning log,
	// then cut at the configured threshold.
	ranked := fingerprint.Rank(*query, candidates, 0)
	s.logTopScores(eventID, ranked)

	threshold := s.match.Threshold()
	results := make([]services.MatchResult, 0, len(ranked))
	for _, m := range ranked {
		if m.Score < threshold {
			break // ranked is sorted descending
		}
		photo := byID[m.ID]
		results = append(results, services.MatchResult{
			PhotoID:    photo.ID,
			EventID:    photo.EventID,
			URL:        photo.URL,
			FileName:   photo.FileName,
			Similarity: math.Round(m.Score*10) / 10,
			CreatedAt:  photo.CreatedAt,
		})
	}

	observability.MatchRequests.WithLabelValues("success").Inc()
	observability.MatchResults.Observe(float64(len(results)))
	observability.MatchDuration.Observe(time.Since(start).Seconds())

	logger.Match("find", "Match query complete", map[string]interface{}{
		"event_id":   eventID.String(),
		"candidates": len(candidates),
		"results":    len(results),
		"threshold":  threshold,
		"duration":   time.Since(start).String(),
	})
	return results, nil
}

// buildCandidates converts completed photos into comparable candidates,
// preserving the repository's creation order for deterministic tie
// handling. Photos whose stored fingerprint fails to decode are skipped
// like photos without one.
func (s *MatchServiceImpl) buildCandidates(photos []models.Photo) ([]fingerprint.Candidate, map[string]*models.Photo) {
	candidates := make([]fingerprint.Candidate, 0, len(photos))
	byID := make(map[string]*models.Photo, len(photos))

	for i := range photos {
		photo := &photos[i]
		if photo.FingerprintStatus != models.FingerprintCompleted {
			continue
		}

		var fp *fingerprint.Fingerprint
		switch s.match.Strategy {
		case config.StrategyHash:
			if photo.Hashes == nil {
				continue
			}
			decoded, err := fingerprint.DecodeHashes(*photo.Hashes)
			if err != nil {
				logger.Warn(logger.CategoryMatch, "bad_stored_hashes", "Stored hashes failed to decode", map[string]interface{}{
					"photo_id": photo.ID.String(),
				})
				continue
			}
			fp = decoded
		case config.StrategyEmbedding:
			if photo.Embedding == nil {
				continue
			}
			emb := fingerprint.NewEmbedding(photo.Embedding.Slice())
			fp = &emb
		}

		id := photo.ID.String()
		candidates = append(candidates, fingerprint.Candidate{ID: id, Fingerprint: fp})
		byID[id] = photo
	}
	return candidates, byID
}

// logTopScores records the best pre-threshold scores of a query, the main
// diagnostic for tuning thresholds against a real photo collection.
func (s *MatchServiceImpl) logTopScores(eventID uuid.UUID, ranked []fingerprint.RankedMatch) {
	n := s.match.TopLogCount
	if n <= 0 || len(ranked) == 0 {
		return
	}
	if n > len(ranked) {
		n = len(ranked)
	}

	top := make([]map[string]interface{}, 0, n)
	for _, m := range ranked[:n] {
		top = append(top, map[string]interface{}{
			"photo_id": m.ID,
			"score":    math.Round(m.Score*10) / 10,
		})
	}
	logger.Match("top_scores", "Best candidate scores", map[string]interface{}{
		"event_id": eventID.String(),
		"top":      top,
	})
}
