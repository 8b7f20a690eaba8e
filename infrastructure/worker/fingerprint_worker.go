package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pgvector/pgvector-go"

	"photoevent/domain/models"
	"photoevent/domain/repositories"
	"photoevent/infrastructure/storage"
	"photoevent/infrastructure/websocket"
	"photoevent/pkg/config"
	"photoevent/pkg/fingerprint"
	"photoevent/pkg/logger"
	"photoevent/pkg/observability"
)

// FingerprintWorker drains the pending-fingerprint queue. With the hash
// strategy extraction happens inline at upload and this worker only picks
// up photos a crash left behind; with the embedding strategy every upload
// lands here, since the encoding backend is too slow to block the upload
// request on.
type FingerprintWorker struct {
	photoRepo repositories.PhotoRepository
	store     storage.ObjectStorage
	extractor fingerprint.Extractor
	strategy  config.MatchStrategy

	// healthCheck gates a poll cycle when the extractor depends on an
	// external backend; nil means always available.
	healthCheck func(ctx context.Context) bool

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	isRunning bool
	mu        sync.Mutex

	pollInterval  time.Duration
	maxConcurrent int
	batchSize     int

	maxRetries     int
	baseRetryDelay time.Duration

	circuitBreaker *CircuitBreaker
}

// CircuitBreaker prevents hammering a failing extraction backend.
type CircuitBreaker struct {
	failures     int32
	threshold    int32
	resetTimeout time.Duration
	lastFailure  time.Time
	mu           sync.RWMutex
}

func NewCircuitBreaker(threshold int32, resetTimeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		threshold:    threshold,
		resetTimeout: resetTimeout,
	}
}

// IsOpen returns true if the circuit is open (should not proceed).
func (cb *CircuitBreaker) IsOpen() bool {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	if atomic.LoadInt32(&cb.failures) >= cb.threshold {
		// After the reset timeout one batch is allowed through
		// (half-open state).
		if time.Since(cb.lastFailure) > cb.resetTimeout {
			return false
		}
		return true
	}
	return false
}

func (cb *CircuitBreaker) RecordSuccess() {
	atomic.StoreInt32(&cb.failures, 0)
}

func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	atomic.AddInt32(&cb.failures, 1)
	cb.lastFailure = time.Now()
}

func (cb *CircuitBreaker) GetFailures() int32 {
	return atomic.LoadInt32(&cb.failures)
}

// NewFingerprintWorker creates a worker bound to the deployment's match
// strategy.
func NewFingerprintWorker(
	photoRepo repositories.PhotoRepository,
	store storage.ObjectStorage,
	extractor fingerprint.Extractor,
	cfg *config.Config,
	healthCheck func(ctx context.Context) bool,
) *FingerprintWorker {
	return &FingerprintWorker{
		photoRepo:      photoRepo,
		store:          store,
		extractor:      extractor,
		strategy:       cfg.Match.Strategy,
		healthCheck:    healthCheck,
		pollInterval:   cfg.Worker.PollInterval,
		maxConcurrent:  cfg.Worker.MaxConcurrent,
		batchSize:      cfg.Worker.BatchSize,
		maxRetries:     3,
		baseRetryDelay: 2 * time.Second,
		circuitBreaker: NewCircuitBreaker(10, 60*time.Second),
	}
}

// Start starts the worker loop.
func (w *FingerprintWorker) Start() {
	w.mu.Lock()
	if w.isRunning {
		w.mu.Unlock()
		return
	}
	w.isRunning = true
	w.ctx, w.cancel = context.WithCancel(context.Background())
	w.mu.Unlock()

	w.wg.Add(1)
	go w.run()

	logger.Worker("start", "Fingerprint worker started", map[string]interface{}{
		"strategy":       string(w.strategy),
		"poll_interval":  w.pollInterval.String(),
		"max_concurrent": w.maxConcurrent,
		"batch_size":     w.batchSize,
	})
}

// Stop stops the worker gracefully, waiting for in-flight photos.
func (w *FingerprintWorker) Stop() {
	w.mu.Lock()
	if !w.isRunning {
		w.mu.Unlock()
		return
	}
	w.isRunning = false
	w.mu.Unlock()

	w.cancel()
	w.wg.Wait()
	logger.Worker("stop", "Fingerprint worker stopped", nil)
}

func (w *FingerprintWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.isRunning
}

func (w *FingerprintWorker) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	// Process immediately on start, then on every tick.
	w.processPending()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.processPending()
		}
	}
}

// processPending fetches one batch of pending photos and extracts their
// fingerprints with bounded concurrency.
func (w *FingerprintWorker) processPending() {
	if w.circuitBreaker.IsOpen() {
		logger.Warn(logger.CategoryWorker, "circuit_open", "Circuit breaker open, skipping batch", map[string]interface{}{
			"failures": w.circuitBreaker.GetFailures(),
		})
		return
	}

	if w.healthCheck != nil && !w.healthCheck(w.ctx) {
		w.circuitBreaker.RecordFailure()
		logger.Warn(logger.CategoryWorker, "backend_down", "Extraction backend unavailable", nil)
		return
	}

	photos, err := w.photoRepo.GetByFingerprintStatus(w.ctx, models.FingerprintPending, w.batchSize)
	if err != nil {
		logger.Error(logger.CategoryWorker, "fetch_pending", "Failed to fetch pending photos", err, nil)
		return
	}

	observability.WorkerQueueDepth.Set(float64(len(photos)))
	if len(photos) == 0 {
		return
	}

	logger.Worker("batch_start", "Processing fingerprint batch", map[string]interface{}{
		"count": len(photos),
	})

	var batchWg sync.WaitGroup
	sem := make(chan struct{}, w.maxConcurrent)

	successCount := int32(0)
	failCount := int32(0)

	for _, photo := range photos {
		sem <- struct{}{}
		batchWg.Add(1)

		go func(p models.Photo) {
			defer batchWg.Done()
			defer func() { <-sem }()

			if w.processPhotoWithRetry(p) {
				atomic.AddInt32(&successCount, 1)
				w.circuitBreaker.RecordSuccess()
			} else {
				atomic.AddInt32(&failCount, 1)
			}
		}(photo)
	}

	batchWg.Wait()

	logger.Worker("batch_done", "Fingerprint batch complete", map[string]interface{}{
		"success": atomic.LoadInt32(&successCount),
		"failed":  atomic.LoadInt32(&failCount),
	})
}

func (w *FingerprintWorker) processPhotoWithRetry(photo models.Photo) bool {
	var lastErr error

	for attempt := 0; attempt <= w.maxRetries; attempt++ {
		if attempt > 0 {
			delay := w.baseRetryDelay * time.Duration(1<<uint(attempt-1))
			time.Sleep(delay)
		}

		err := w.processPhoto(photo)
		if err == nil {
			return true
		}

		lastErr = err
		logger.Warn(logger.CategoryWorker, "photo_attempt_failed", "Fingerprint extraction attempt failed", map[string]interface{}{
			"photo_id": photo.ID.String(),
			"attempt":  attempt + 1,
			"error":    err.Error(),
		})

		if !isRetryableError(err) {
			break
		}
	}

	w.failPhoto(photo, lastErr)
	// Bad input says nothing about backend health; only transport-class
	// failures count toward opening the circuit.
	if lastErr != nil && isRetryableError(lastErr) {
		w.circuitBreaker.RecordFailure()
	}
	return false
}

// isRetryableError reports whether another attempt could succeed. Bad
// input never becomes good input; transport hiccups do.
func isRetryableError(err error) bool {
	if errors.Is(err, fingerprint.ErrUndecodable) || errors.Is(err, fingerprint.ErrNoSubjectDetected) {
		return false
	}

	errStr := err.Error()
	retryablePatterns := []string{
		"timeout",
		"connection refused",
		"connection reset",
		"temporary failure",
		"503",
		"502",
		"504",
		"rate limit",
	}
	for _, pattern := range retryablePatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}

// processPhoto extracts and persists the fingerprint of one photo.
func (w *FingerprintWorker) processPhoto(photo models.Photo) error {
	ctx := w.ctx

	if err := w.photoRepo.UpdateFingerprintStatus(ctx, photo.ID, models.FingerprintProcessing); err != nil {
		return fmt.Errorf("failed to mark photo processing: %w", err)
	}

	data, err := w.store.Get(ctx, photo.ObjectKey)
	if err != nil {
		return fmt.Errorf("failed to fetch photo bytes: %w", err)
	}

	start := time.Now()
	fp, err := w.extractor.Extract(ctx, data)
	observability.ExtractionDuration.WithLabelValues(string(w.strategy)).Observe(time.Since(start).Seconds())
	if err != nil {
		observability.FingerprintsExtracted.WithLabelValues(string(w.strategy), "error").Inc()
		return fmt.Errorf("extraction failed: %w", err)
	}

	now := time.Now()
	update := models.Photo{
		FingerprintStatus: models.FingerprintCompleted,
		FingerprintedAt:   &now,
	}
	switch fp.Kind {
	case fingerprint.KindHash:
		encoded, encErr := fp.EncodeHashes()
		if encErr != nil {
			return fmt.Errorf("failed to encode hashes: %w", encErr)
		}
		update.Hashes = &encoded
	case fingerprint.KindEmbedding:
		vec := pgvector.NewVector(fp.Vector)
		update.Embedding = &vec
	}

	if err := w.photoRepo.UpdateFingerprint(ctx, photo.ID, &update); err != nil {
		return fmt.Errorf("failed to persist fingerprint: %w", err)
	}

	observability.FingerprintsExtracted.WithLabelValues(string(w.strategy), "success").Inc()
	w.broadcastProgress(ctx, photo, models.FingerprintCompleted, "")

	logger.Worker("photo_done", "Fingerprint extracted", map[string]interface{}{
		"photo_id": photo.ID.String(),
		"event_id": photo.EventID.String(),
		"duration": time.Since(start).String(),
	})
	return nil
}

func (w *FingerprintWorker) failPhoto(photo models.Photo, cause error) {
	errMsg := "unknown error"
	if cause != nil {
		errMsg = cause.Error()
	}

	logger.Error(logger.CategoryWorker, "photo_failed", "Fingerprint extraction failed permanently", cause, map[string]interface{}{
		"photo_id": photo.ID.String(),
		"event_id": photo.EventID.String(),
	})

	if err := w.photoRepo.UpdateFingerprintStatus(w.ctx, photo.ID, models.FingerprintFailed); err != nil {
		logger.Error(logger.CategoryWorker, "status_update", "Failed to mark photo failed", err, map[string]interface{}{
			"photo_id": photo.ID.String(),
		})
	}

	w.broadcastProgress(w.ctx, photo, models.FingerprintFailed, errMsg)
}

// broadcastProgress pushes per-event processing counters to websocket
// subscribers. Counting queries run only when someone is watching.
func (w *FingerprintWorker) broadcastProgress(ctx context.Context, photo models.Photo, status models.FingerprintStatus, errMsg string) {
	if websocket.Manager.ClientCount(photo.EventID) == 0 {
		return
	}

	total, err := w.photoRepo.CountByEvent(ctx, photo.EventID)
	if err != nil {
		return
	}
	completed, _ := w.photoRepo.CountByEventAndStatus(ctx, photo.EventID, models.FingerprintCompleted)
	failed, _ := w.photoRepo.CountByEventAndStatus(ctx, photo.EventID, models.FingerprintFailed)

	data := map[string]interface{}{
		"photo_id":  photo.ID.String(),
		"status":    string(status),
		"total":     total,
		"completed": completed,
		"failed":    failed,
	}
	if errMsg != "" {
		data["error"] = errMsg
	}
	websocket.Manager.BroadcastToEvent(photo.EventID, "fingerprint:progress", data)
}

// GetStats returns worker statistics for the health endpoint.
func (w *FingerprintWorker) GetStats() map[string]interface{} {
	return map[string]interface{}{
		"isRunning":       w.IsRunning(),
		"strategy":        string(w.strategy),
		"maxConcurrent":   w.maxConcurrent,
		"batchSize":       w.batchSize,
		"circuitClosed":   !w.circuitBreaker.IsOpen(),
		"circuitFailures": w.circuitBreaker.GetFailures(),
	}
}
