package fingerprint

import "math"

// MaxScore is the top of the similarity scale.
const MaxScore = 100.0

// hashDistanceScale maps a 256-bit Hamming distance onto the 0..100 scale:
// sim = 100 - distance*0.5, floored at zero. A distance of 200 bits or more
// therefore scores zero. Thresholds elsewhere are calibrated against this
// exact mapping.
const hashDistanceScale = 0.5

// Compare scores two fingerprints on the 0..100 scale. The second return
// value is false when no comparison is defined: mismatched kinds, malformed
// inputs, no shared hash algorithms, or embedding vectors of different
// lengths. A false result is a non-match, never an error, so one bad
// candidate cannot abort a ranking pass.
//
// Compare is symmetric and never mutates its inputs.
func Compare(a, b Fingerprint) (float64, bool) {
	if a.Kind != b.Kind || !a.Valid() || !b.Valid() {
		return 0, false
	}
	switch a.Kind {
	case KindHash:
		return compareHashSets(a.Hashes, b.Hashes)
	case KindEmbedding:
		return compareEmbeddings(a.Vector, b.Vector)
	}
	return 0, false
}

// compareHashSets scores every algorithm present on both sides and keeps
// the best score. Taking the maximum across hash families trades precision
// for recall: different families fail on different kinds of image
// variation, and the best agreement minimizes false negatives.
func compareHashSets(a, b map[string]BitString) (float64, bool) {
	best := -1.0
	for _, alg := range HashAlgorithms {
		ha, okA := a[alg]
		hb, okB := b[alg]
		if !okA || !okB {
			continue
		}
		sim := MaxScore - float64(ha.Distance(hb))*hashDistanceScale
		if sim < 0 {
			sim = 0
		}
		if sim > best {
			best = sim
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}

// compareEmbeddings maps cosine similarity onto 0..100, clamping negative
// cosines to zero. Vectors must be equal length and non-degenerate.
func compareEmbeddings(a, b []float32) (float64, bool) {
	if len(a) != len(b) || len(a) == 0 {
		return 0, false
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, false
	}

	cos := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if cos < 0 {
		cos = 0
	} else if cos > 1 {
		cos = 1
	}
	return cos * MaxScore, true
}
