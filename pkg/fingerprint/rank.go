package fingerprint

import "sort"

// Candidate is one stored photo considered for comparison against a query.
// A nil Fingerprint marks a photo whose extraction has not completed or
// failed; such candidates are skipped, not errors.
type Candidate struct {
	ID          string
	Fingerprint *Fingerprint
}

// RankedMatch is one accepted candidate with its similarity score.
type RankedMatch struct {
	ID    string
	Score float64
}

// Rank compares query against every usable candidate and returns those
// scoring at least threshold, ordered by score descending. Exact ties keep
// the candidates' slice order, so callers passing candidates in creation
// order get deterministic results across identical queries.
//
// Candidates with absent fingerprints, mismatched kinds or malformed data
// are silently excluded. Rank imposes no limit on result count.
func Rank(query Fingerprint, candidates []Candidate, threshold float64) []RankedMatch {
	matches := make([]RankedMatch, 0, len(candidates))
	for _, c := range candidates {
		if c.Fingerprint == nil {
			continue
		}
		score, ok := Compare(query, *c.Fingerprint)
		if !ok || score < threshold {
			continue
		}
		matches = append(matches, RankedMatch{ID: c.ID, Score: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}
