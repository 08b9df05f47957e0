package blobset

const (
	MinCapacity = 1 << 4
	MaxCapacity = 1 << 30

	// the load factor is 3/4, kept in integers so that the bound is exact.
	loadNum = 3
	loadDen = 4
)

// WithinLoad reports if a table of capacity slots may hold size entries.
func WithinLoad(size, capacity int) bool {
	return size*loadDen <= capacity*loadNum
}

// GrowTo returns the capacity a table should grow to so that it can hold one
// more than size entries, or false if no capacity at or below limit can.
func GrowTo(size, capacity, limit int) (int, bool) {
	next := capacity * 2
	if next > limit || next < capacity {
		next = limit
	}
	if next <= capacity || !WithinLoad(size+1, next) {
		return capacity, false
	}
	return next, true
}

// InitialCapacity clamps a capacity hint into [MinCapacity, limit].
func InitialCapacity(hint, limit int) int {
	if hint < MinCapacity {
		hint = MinCapacity
	}
	if hint > limit {
		hint = limit
	}
	return hint
}
