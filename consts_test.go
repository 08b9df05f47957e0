package blobset

import (
	"testing"

	"github.com/zeebo/assert"
)

func TestWithinLoad(t *testing.T) {
	assert.That(t, WithinLoad(0, 16))
	assert.That(t, WithinLoad(12, 16))
	assert.That(t, !WithinLoad(13, 16))
	assert.That(t, !WithinLoad(1, 0))
}

func TestGrowTo(t *testing.T) {
	n, ok := GrowTo(12, 16, MaxCapacity)
	assert.That(t, ok)
	assert.Equal(t, n, 32)

	// clamped to the limit
	n, ok = GrowTo(12, 16, 20)
	assert.That(t, ok)
	assert.Equal(t, n, 20)

	// at the limit with no room
	n, ok = GrowTo(48, 64, 64)
	assert.That(t, !ok)
	assert.Equal(t, n, 64)

	// the limit is too small to take one more
	_, ok = GrowTo(15, 16, 20)
	assert.That(t, !ok)

	_, ok = GrowTo(MaxCapacity/4*3, MaxCapacity, MaxCapacity)
	assert.That(t, !ok)
}

func TestInitialCapacity(t *testing.T) {
	assert.Equal(t, InitialCapacity(0, MaxCapacity), MinCapacity)
	assert.Equal(t, InitialCapacity(-5, MaxCapacity), MinCapacity)
	assert.Equal(t, InitialCapacity(100, MaxCapacity), 100)
	assert.Equal(t, InitialCapacity(1<<40, MaxCapacity), MaxCapacity)
	assert.Equal(t, InitialCapacity(100, 64), 64)
}

func TestReserveFor(t *testing.T) {
	assert.Equal(t, ReserveFor(0, MaxCapacity), MinCapacity)
	assert.Equal(t, ReserveFor(12, MaxCapacity), MinCapacity)
	assert.Equal(t, ReserveFor(13, MaxCapacity), 2*MinCapacity)
	assert.Equal(t, ReserveFor(300, MaxCapacity), 512)
	assert.Equal(t, ReserveFor(300, 64), 64)
	assert.Equal(t, ReserveFor(MaxCapacity/4*3, MaxCapacity), MaxCapacity)
}
