package nfp

import (
	"math"
	"sync"

	"github.com/piwi3910/polynest/internal/model"
)

// DefaultAnglePrecision is the angle quantization step, in degrees, used for
// cache keys when none is configured.
const DefaultAnglePrecision = 1e-3

type cacheKey struct {
	aID, bID       int
	aAngle, bAngle int64
}

// Cache memoizes no-fit polygons keyed by the two part identifiers and their
// quantized rotation angles. Entries grow monotonically and are never
// invalidated during a run. The cache is safe for concurrent use by the
// parallel fitness evaluators.
type Cache struct {
	mu        sync.Mutex
	entries   map[cacheKey][]model.Point2D
	precision float64
}

// NewCache creates a cache with the given angle quantization step in degrees.
// The precision is fixed at construction so keys cannot drift across threads.
func NewCache(precision float64) *Cache {
	if precision <= 0 {
		precision = DefaultAnglePrecision
	}
	return &Cache{
		entries:   make(map[cacheKey][]model.Point2D),
		precision: precision,
	}
}

// GetOrGenerate returns the memoized no-fit polygon for the pair, computing
// and storing the Minkowski difference of a and b on a miss. The returned
// slice is a copy; callers may not mutate cache state through it.
func (c *Cache) GetOrGenerate(aID, bID int, aAngle, bAngle float64, a, b []model.Point2D) []model.Point2D {
	factor := 1 / c.precision
	key := cacheKey{
		aID:    aID,
		bID:    bID,
		aAngle: int64(math.Round(aAngle * factor)),
		bAngle: int64(math.Round(bAngle * factor)),
	}

	c.mu.Lock()
	cached, ok := c.entries[key]
	c.mu.Unlock()
	if ok {
		return append([]model.Point2D(nil), cached...)
	}

	result := MinkowskiDifference(a, b)

	c.mu.Lock()
	c.entries[key] = result
	c.mu.Unlock()
	return append([]model.Point2D(nil), result...)
}

// Len returns the number of memoized entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
