package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bitStringWithBits returns a BitString with the first n bits set.
func bitStringWithBits(n int) BitString {
	var b BitString
	for i := 0; i < n; i++ {
		b.setBit(i)
	}
	return b
}

func TestBitStringHexRoundTrip(t *testing.T) {
	b := bitStringWithBits(37)

	h := b.Hex()
	require.Len(t, h, 64)

	parsed, err := ParseBitString(h)
	require.NoError(t, err)
	assert.Equal(t, b, parsed)
}

func TestParseBitStringErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"NotHex", "zz"},
		{"TooShort", "deadbeef"},
		{"TooLong", bitStringWithBits(1).Hex() + "00"},
		{"Empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBitString(tt.input)
			assert.Error(t, err)
		})
	}
}

func TestBitStringDistance(t *testing.T) {
	zero := BitString{}

	assert.Equal(t, 0, zero.Distance(zero))
	assert.Equal(t, 5, zero.Distance(bitStringWithBits(5)))
	assert.Equal(t, 256, zero.Distance(bitStringWithBits(256)))

	a := bitStringWithBits(10)
	b := bitStringWithBits(4)
	assert.Equal(t, 6, a.Distance(b))
	assert.Equal(t, b.Distance(a), a.Distance(b))
}

func TestFingerprintValid(t *testing.T) {
	assert.False(t, Fingerprint{}.Valid())
	assert.False(t, Fingerprint{Kind: KindHash}.Valid())
	assert.False(t, Fingerprint{Kind: KindEmbedding}.Valid())

	h := NewHashSet(map[string]BitString{AlgPHash: {}})
	assert.True(t, h.Valid())

	e := NewEmbedding([]float32{0.1, 0.2})
	assert.True(t, e.Valid())
}

func TestEncodeDecodeHashes(t *testing.T) {
	fp := NewHashSet(map[string]BitString{
		AlgPHash:   bitStringWithBits(12),
		AlgDHash:   bitStringWithBits(200),
		AlgAverage: {},
	})

	encoded, err := fp.EncodeHashes()
	require.NoError(t, err)

	decoded, err := DecodeHashes(encoded)
	require.NoError(t, err)
	assert.Equal(t, KindHash, decoded.Kind)
	assert.Equal(t, fp.Hashes, decoded.Hashes)

	score, ok := Compare(fp, *decoded)
	require.True(t, ok)
	assert.Equal(t, MaxScore, score)
}

func TestDecodeHashesKeepsUnknownAlgorithms(t *testing.T) {
	known := bitStringWithBits(3)
	payload := `{"average":"` + known.Hex() + `","experimental":"` + bitStringWithBits(7).Hex() + `"}`

	decoded, err := DecodeHashes(payload)
	require.NoError(t, err)
	assert.Len(t, decoded.Hashes, 2)
	assert.Equal(t, known, decoded.Hashes[AlgAverage])

	// Comparison still works through the shared known algorithm.
	other := NewHashSet(map[string]BitString{AlgAverage: known})
	score, ok := Compare(*decoded, other)
	require.True(t, ok)
	assert.Equal(t, MaxScore, score)
}

func TestDecodeHashesErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"NotJSON", "nonsense"},
		{"EmptyObject", "{}"},
		{"BadHex", `{"phash":"xyz"}`},
		{"WrongLength", `{"phash":"abcd"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeHashes(tt.input)
			assert.Error(t, err)
		})
	}
}

func TestEncodeHashesRejectsEmbedding(t *testing.T) {
	fp := NewEmbedding([]float32{1, 2, 3})
	_, err := fp.EncodeHashes()
	assert.Error(t, err)
}
