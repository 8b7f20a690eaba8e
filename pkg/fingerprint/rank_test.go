package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankOrdersByScoreDescending(t *testing.T) {
	query := NewEmbedding([]float32{1, 0})

	mid := NewEmbedding([]float32{0.8, 0.6})  // cos 0.8  -> 80
	low := NewEmbedding([]float32{0.6, 0.8})  // cos 0.6  -> 60
	best := NewEmbedding([]float32{1, 0.001}) // ~100

	matches := Rank(query, []Candidate{
		{ID: "low", Fingerprint: &low},
		{ID: "best", Fingerprint: &best},
		{ID: "mid", Fingerprint: &mid},
	}, 0)

	require.Len(t, matches, 3)
	assert.Equal(t, "best", matches[0].ID)
	assert.Equal(t, "mid", matches[1].ID)
	assert.Equal(t, "low", matches[2].ID)
	assert.GreaterOrEqual(t, matches[0].Score, matches[1].Score)
	assert.GreaterOrEqual(t, matches[1].Score, matches[2].Score)
}

func TestRankAppliesThreshold(t *testing.T) {
	query := NewEmbedding([]float32{1, 0})

	exact := NewEmbedding([]float32{1, 0})         // 100
	atCutoff := NewEmbedding([]float32{0.6, 0.8})  // 60
	below := NewEmbedding([]float32{0.5, 0.86603}) // ~50

	matches := Rank(query, []Candidate{
		{ID: "exact", Fingerprint: &exact},
		{ID: "at-cutoff", Fingerprint: &atCutoff},
		{ID: "below", Fingerprint: &below},
	}, 60)

	require.Len(t, matches, 2)
	assert.Equal(t, "exact", matches[0].ID)
	assert.Equal(t, "at-cutoff", matches[1].ID) // >= threshold is accepted
}

func TestRankTiesKeepCandidateOrder(t *testing.T) {
	query := NewEmbedding([]float32{1, 0})
	same := NewEmbedding([]float32{2, 0})

	matches := Rank(query, []Candidate{
		{ID: "first", Fingerprint: &same},
		{ID: "second", Fingerprint: &same},
		{ID: "third", Fingerprint: &same},
	}, 0)

	require.Len(t, matches, 3)
	assert.Equal(t, []string{"first", "second", "third"}, []string{matches[0].ID, matches[1].ID, matches[2].ID})
}

func TestRankSkipsUnusableCandidates(t *testing.T) {
	query := NewEmbedding([]float32{1, 0})

	good := NewEmbedding([]float32{1, 0})
	wrongKind := NewHashSet(map[string]BitString{AlgPHash: {}})
	wrongLength := NewEmbedding([]float32{1, 0, 0})

	matches := Rank(query, []Candidate{
		{ID: "pending", Fingerprint: nil},
		{ID: "wrong-kind", Fingerprint: &wrongKind},
		{ID: "wrong-length", Fingerprint: &wrongLength},
		{ID: "good", Fingerprint: &good},
	}, 0)

	require.Len(t, matches, 1)
	assert.Equal(t, "good", matches[0].ID)
}

func TestRankEmptyCandidates(t *testing.T) {
	query := NewEmbedding([]float32{1, 0})

	matches := Rank(query, nil, 0)
	assert.NotNil(t, matches)
	assert.Empty(t, matches)
}
