package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNearestIndex(t *testing.T) {
	xs := []float64{10, 20, 30, 40}
	distTo := func(target float64) func(int) float64 {
		return func(i int) float64 { return math.Abs(xs[i] - target) }
	}

	t.Run("picks minimum distance", func(t *testing.T) {
		assert.Equal(t, 2, nearestIndex(len(xs), nil, distTo(29)))
	})

	t.Run("tie keeps earliest candidate", func(t *testing.T) {
		// 25 is equidistant from 20 and 30.
		assert.Equal(t, 1, nearestIndex(len(xs), nil, distTo(25)))
	})

	t.Run("eligibility predicate filters candidates", func(t *testing.T) {
		odd := func(i int) bool { return i%2 == 1 }
		assert.Equal(t, 1, nearestIndex(len(xs), odd, distTo(10)))
	})

	t.Run("no eligible candidate", func(t *testing.T) {
		none := func(int) bool { return false }
		assert.Equal(t, -1, nearestIndex(len(xs), none, distTo(10)))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Equal(t, -1, nearestIndex(0, nil, func(int) float64 { return 0 }))
	})
}
