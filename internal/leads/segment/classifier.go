// Package segment classifies lead scores into hot/warm/cold buckets.
package segment

// Segment is a lead temperature bucket.
type Segment string

const (
	Hot  Segment = "hot"
	Warm Segment = "warm"
	Cold Segment = "cold"
)

// Thresholds holds the minimum scores for the hot and warm segments.
// Anything below warm is cold.
type Thresholds struct {
	HotMinScore  int
	WarmMinScore int
}

// DefaultThresholds matches the shipped site configuration.
func DefaultThresholds() Thresholds {
	return Thresholds{HotMinScore: 30, WarmMinScore: 15}
}

// Valid reports whether the thresholds are usable: hot must sit strictly
// above warm, and both must be positive.
func (t Thresholds) Valid() bool {
	return t.HotMinScore > t.WarmMinScore && t.WarmMinScore > 0
}

// Classify maps a score to a segment. Malformed thresholds classify
// everything as cold; callers should check Valid and warn, classification
// itself stays total and non-fatal.
func Classify(score int, t Thresholds) Segment {
	if !t.Valid() {
		return Cold
	}
	if score >= t.HotMinScore {
		return Hot
	}
	if score >= t.WarmMinScore {
		return Warm
	}
	return Cold
}
