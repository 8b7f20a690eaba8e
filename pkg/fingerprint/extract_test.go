package fingerprint

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, img *image.Gray) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestHashExtractorExtract(t *testing.T) {
	data := encodePNG(t, blockImage(11))

	fp, err := NewHashExtractor().Extract(context.Background(), data)
	require.NoError(t, err)
	require.NotNil(t, fp)

	assert.Equal(t, KindHash, fp.Kind)
	assert.True(t, fp.Valid())
	require.Len(t, fp.Hashes, len(HashAlgorithms))
	for _, alg := range HashAlgorithms {
		h, ok := fp.Hashes[alg]
		require.True(t, ok, "algorithm %s missing", alg)
		assert.Len(t, h.Hex(), 64)
	}
}

func TestHashExtractorDeterministicAcrossEncodes(t *testing.T) {
	// Two separate PNG encodes of the same pixels decode to the same
	// canonical content and must fingerprint identically.
	img := blockImage(77)
	a, err := NewHashExtractor().Extract(context.Background(), encodePNG(t, img))
	require.NoError(t, err)
	b, err := NewHashExtractor().Extract(context.Background(), encodePNG(t, img))
	require.NoError(t, err)

	score, ok := Compare(*a, *b)
	require.True(t, ok)
	assert.Equal(t, MaxScore, score)
}

func TestHashExtractorUndecodable(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"Garbage", []byte("definitely not an image")},
		{"Empty", nil},
		{"TruncatedPNG", encodePNG(t, blockImage(1))[:20]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewHashExtractor().Extract(context.Background(), tt.data)
			assert.ErrorIs(t, err, ErrUndecodable)
		})
	}
}

func TestDecodable(t *testing.T) {
	assert.True(t, Decodable(encodePNG(t, blockImage(5))))
	assert.False(t, Decodable([]byte("nope")))
	assert.False(t, Decodable(nil))
}
