// Package fingerprint implements the photo similarity matching engine:
// extraction of compact fingerprints from raw image bytes, similarity
// scoring between fingerprints, and threshold-based ranking of candidate
// photos against a query.
//
// Two fingerprint kinds exist and are never compared with each other:
//
//   - KindHash: a set of perceptual hashes (phash, dhash, average), each a
//     256-bit string computed from a 16x16 grid. Cheap, no ML involved.
//   - KindEmbedding: a fixed-length float vector produced by an external
//     face detection/encoding backend, compared by cosine similarity.
//
// All scores live on a 0..100 scale. Fingerprints are immutable once
// produced, so every function here is safe for concurrent use.
package fingerprint

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/bits"
)

// Kind discriminates the fingerprint variants.
type Kind string

const (
	KindHash      Kind = "hash"
	KindEmbedding Kind = "embedding"
)

// Perceptual hash algorithm names. HashAlgorithms fixes the order in which
// algorithms are serialized and compared.
const (
	AlgPHash   = "phash"
	AlgDHash   = "dhash"
	AlgAverage = "average"
)

var HashAlgorithms = []string{AlgPHash, AlgDHash, AlgAverage}

// BitString is a fixed-width 256-bit perceptual hash (16x16 grid, row-major,
// most significant bit first within each byte).
type BitString [32]byte

// Hex returns the lowercase hex form used for persistence. It round-trips
// exactly through ParseBitString.
func (b BitString) Hex() string {
	return hex.EncodeToString(b[:])
}

// ParseBitString parses the hex form produced by Hex.
func ParseBitString(s string) (BitString, error) {
	var b BitString
	raw, err := hex.DecodeString(s)
	if err != nil {
		return b, fmt.Errorf("parse bit string: %w", err)
	}
	if len(raw) != len(b) {
		return b, fmt.Errorf("parse bit string: got %d bytes, want %d", len(raw), len(b))
	}
	copy(b[:], raw)
	return b, nil
}

// Distance returns the Hamming distance to o, in bits.
func (b BitString) Distance(o BitString) int {
	var d int
	for i := range b {
		d += bits.OnesCount8(b[i] ^ o[i])
	}
	return d
}

func (b *BitString) setBit(idx int) {
	b[idx/8] |= 1 << (7 - idx%8)
}

// Fingerprint is a tagged union over the two fingerprint kinds. Exactly one
// of Hashes and Vector is populated, according to Kind. The zero value is
// invalid; absence of a fingerprint is represented by a nil *Fingerprint.
type Fingerprint struct {
	Kind   Kind
	Hashes map[string]BitString
	Vector []float32
}

// NewHashSet builds a hash-kind fingerprint from per-algorithm bit strings.
func NewHashSet(hashes map[string]BitString) Fingerprint {
	return Fingerprint{Kind: KindHash, Hashes: hashes}
}

// NewEmbedding builds an embedding-kind fingerprint.
func NewEmbedding(vector []float32) Fingerprint {
	return Fingerprint{Kind: KindEmbedding, Vector: vector}
}

// Valid reports whether the fingerprint carries usable data for its kind.
func (f Fingerprint) Valid() bool {
	switch f.Kind {
	case KindHash:
		return len(f.Hashes) > 0
	case KindEmbedding:
		return len(f.Vector) > 0
	}
	return false
}

// EncodeHashes serializes a hash-kind fingerprint to the JSON object form
// stored in the photo record (algorithm name to hex bit string).
func (f Fingerprint) EncodeHashes() (string, error) {
	if f.Kind != KindHash || len(f.Hashes) == 0 {
		return "", fmt.Errorf("encode hashes: not a hash fingerprint")
	}
	m := make(map[string]string, len(f.Hashes))
	for alg, h := range f.Hashes {
		m[alg] = h.Hex()
	}
	data, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("encode hashes: %w", err)
	}
	return string(data), nil
}

// DecodeHashes parses the JSON form produced by EncodeHashes back into a
// hash-kind fingerprint. Unknown algorithm names are preserved so hashes
// written by older deployments still compare on their shared algorithms.
func DecodeHashes(s string) (*Fingerprint, error) {
	var m map[string]string
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, fmt.Errorf("decode hashes: %w", err)
	}
	if len(m) == 0 {
		return nil, fmt.Errorf("decode hashes: empty hash set")
	}
	hashes := make(map[string]BitString, len(m))
	for alg, hexStr := range m {
		b, err := ParseBitString(hexStr)
		if err != nil {
			return nil, fmt.Errorf("decode hashes: algorithm %q: %w", alg, err)
		}
		hashes[alg] = b
	}
	fp := NewHashSet(hashes)
	return &fp, nil
}
