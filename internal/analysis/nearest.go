package analysis

// nearestIndex scans n candidates in order and returns the index of the
// eligible candidate with the smallest distance. Ties keep the earliest
// candidate, so callers get a stable result regardless of input jitter.
// Returns -1 when no candidate is eligible.
//
// Both the "closest name above a marker" search and the "nearest column
// by x" assignment go through here; they differ only in their distance
// metric and eligibility predicate.
func nearestIndex(n int, eligible func(int) bool, distance func(int) float64) int {
	best := -1
	var bestDist float64
	for i := 0; i < n; i++ {
		if eligible != nil && !eligible(i) {
			continue
		}
		d := distance(i)
		if best == -1 || d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}
