package worker

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"photoevent/pkg/fingerprint"
)

func TestCircuitBreakerOpensAtThreshold(t *testing.T) {
	cb := NewCircuitBreaker(3, time.Minute)

	assert.False(t, cb.IsOpen())

	cb.RecordFailure()
	cb.RecordFailure()
	assert.False(t, cb.IsOpen())

	cb.RecordFailure()
	assert.True(t, cb.IsOpen())
	assert.Equal(t, int32(3), cb.GetFailures())
}

func TestCircuitBreakerSuccessResets(t *testing.T) {
	cb := NewCircuitBreaker(2, time.Minute)

	cb.RecordFailure()
	cb.RecordFailure()
	assert.True(t, cb.IsOpen())

	cb.RecordSuccess()
	assert.False(t, cb.IsOpen())
	assert.Equal(t, int32(0), cb.GetFailures())
}

func TestCircuitBreakerHalfOpenAfterTimeout(t *testing.T) {
	cb := NewCircuitBreaker(1, 10*time.Millisecond)

	cb.RecordFailure()
	assert.True(t, cb.IsOpen())

	time.Sleep(20 * time.Millisecond)
	assert.False(t, cb.IsOpen(), "circuit should allow a probe after the reset timeout")
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"undecodable image", fingerprint.ErrUndecodable, false},
		{"no subject detected", fingerprint.ErrNoSubjectDetected, false},
		{"wrapped undecodable", fmt.Errorf("extract: %w", fingerprint.ErrUndecodable), false},
		{"timeout", errors.New("context deadline exceeded: timeout"), true},
		{"connection refused", errors.New("dial tcp 127.0.0.1:8000: connection refused"), true},
		{"connection reset", errors.New("read: connection reset by peer"), true},
		{"service unavailable", errors.New("unexpected status 503"), true},
		{"bad gateway", errors.New("unexpected status 502"), true},
		{"rate limited", errors.New("rate limit exceeded"), true},
		{"unknown error", errors.New("something else entirely"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.retryable, isRetryableError(tt.err))
		})
	}
}
