package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareRejectsMismatchedKinds(t *testing.T) {
	h := NewHashSet(map[string]BitString{AlgPHash: {}})
	e := NewEmbedding([]float32{1, 0})

	_, ok := Compare(h, e)
	assert.False(t, ok)
	_, ok = Compare(e, h)
	assert.False(t, ok)
}

func TestCompareRejectsInvalid(t *testing.T) {
	valid := NewHashSet(map[string]BitString{AlgPHash: {}})

	_, ok := Compare(Fingerprint{}, Fingerprint{})
	assert.False(t, ok)
	_, ok = Compare(valid, Fingerprint{Kind: KindHash})
	assert.False(t, ok)
}

func TestCompareHashSets(t *testing.T) {
	zero := BitString{}

	t.Run("IdenticalScoresMax", func(t *testing.T) {
		a := NewHashSet(map[string]BitString{AlgPHash: bitStringWithBits(9)})
		score, ok := Compare(a, a)
		require.True(t, ok)
		assert.Equal(t, MaxScore, score)
	})

	t.Run("DistanceMapsLinearly", func(t *testing.T) {
		a := NewHashSet(map[string]BitString{AlgAverage: zero})
		b := NewHashSet(map[string]BitString{AlgAverage: bitStringWithBits(20)})
		score, ok := Compare(a, b)
		require.True(t, ok)
		assert.InDelta(t, 90.0, score, 1e-9) // 100 - 20*0.5
	})

	t.Run("FarDistanceFloorsAtZero", func(t *testing.T) {
		a := NewHashSet(map[string]BitString{AlgAverage: zero})
		b := NewHashSet(map[string]BitString{AlgAverage: bitStringWithBits(250)})
		score, ok := Compare(a, b)
		require.True(t, ok)
		assert.Equal(t, 0.0, score)
	})

	t.Run("BestSharedAlgorithmWins", func(t *testing.T) {
		a := NewHashSet(map[string]BitString{
			AlgPHash:   zero,
			AlgAverage: zero,
		})
		b := NewHashSet(map[string]BitString{
			AlgPHash:   bitStringWithBits(20), // score 90
			AlgAverage: bitStringWithBits(2),  // score 99
		})
		score, ok := Compare(a, b)
		require.True(t, ok)
		assert.InDelta(t, 99.0, score, 1e-9)
	})

	t.Run("OnlySharedAlgorithmsCount", func(t *testing.T) {
		a := NewHashSet(map[string]BitString{
			AlgPHash:   bitStringWithBits(100),
			AlgAverage: zero,
		})
		b := NewHashSet(map[string]BitString{
			AlgDHash:   zero,
			AlgAverage: zero,
		})
		score, ok := Compare(a, b)
		require.True(t, ok)
		assert.Equal(t, MaxScore, score)
	})

	t.Run("NoSharedAlgorithms", func(t *testing.T) {
		a := NewHashSet(map[string]BitString{AlgPHash: zero})
		b := NewHashSet(map[string]BitString{AlgDHash: zero})
		_, ok := Compare(a, b)
		assert.False(t, ok)
	})

	t.Run("Symmetric", func(t *testing.T) {
		a := NewHashSet(map[string]BitString{AlgPHash: bitStringWithBits(33), AlgDHash: zero})
		b := NewHashSet(map[string]BitString{AlgPHash: bitStringWithBits(80), AlgDHash: bitStringWithBits(5)})
		ab, okAB := Compare(a, b)
		ba, okBA := Compare(b, a)
		assert.Equal(t, okAB, okBA)
		assert.Equal(t, ab, ba)
	})
}

func TestCompareEmbeddings(t *testing.T) {
	t.Run("IdenticalScoresMax", func(t *testing.T) {
		a := NewEmbedding([]float32{0.5, 0.5, 0.1})
		score, ok := Compare(a, a)
		require.True(t, ok)
		assert.InDelta(t, MaxScore, score, 1e-6)
	})

	t.Run("ScaleInvariant", func(t *testing.T) {
		a := NewEmbedding([]float32{1, 2, 3})
		b := NewEmbedding([]float32{2, 4, 6})
		score, ok := Compare(a, b)
		require.True(t, ok)
		assert.InDelta(t, MaxScore, score, 1e-6)
	})

	t.Run("OrthogonalScoresZero", func(t *testing.T) {
		a := NewEmbedding([]float32{1, 0})
		b := NewEmbedding([]float32{0, 1})
		score, ok := Compare(a, b)
		require.True(t, ok)
		assert.Equal(t, 0.0, score)
	})

	t.Run("NegativeCosineClampsToZero", func(t *testing.T) {
		a := NewEmbedding([]float32{1, 0})
		b := NewEmbedding([]float32{-1, 0})
		score, ok := Compare(a, b)
		require.True(t, ok)
		assert.Equal(t, 0.0, score)
	})

	t.Run("FortyFiveDegrees", func(t *testing.T) {
		a := NewEmbedding([]float32{1, 0})
		b := NewEmbedding([]float32{1, 1})
		score, ok := Compare(a, b)
		require.True(t, ok)
		assert.InDelta(t, 70.710678, score, 1e-3)
	})

	t.Run("LengthMismatch", func(t *testing.T) {
		a := NewEmbedding([]float32{1, 0})
		b := NewEmbedding([]float32{1, 0, 0})
		_, ok := Compare(a, b)
		assert.False(t, ok)
	})

	t.Run("ZeroMagnitude", func(t *testing.T) {
		a := NewEmbedding([]float32{0, 0})
		b := NewEmbedding([]float32{1, 0})
		_, ok := Compare(a, b)
		assert.False(t, ok)
	})
}
