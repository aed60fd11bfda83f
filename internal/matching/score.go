package matching

import "math"

// MinScore is assigned to degenerate comparisons so the candidate sorts last.
const MinScore = -1.0

// Cosine returns dot(a,b)/(|a||b|). ok is false when either vector has zero
// magnitude or the dimensions differ; the score is then MinScore.
func Cosine(a, b []float32) (score float64, ok bool) {
	if len(a) == 0 || len(a) != len(b) {
		return MinScore, false
	}

	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return MinScore, false
	}

	s := dot / (math.Sqrt(na) * math.Sqrt(nb))
	// clamp float noise
	if s > 1 {
		s = 1
	} else if s < -1 {
		s = -1
	}
	return s, true
}
