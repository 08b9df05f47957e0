// Package settest is a conformance suite for blobset.Set implementations.
package settest

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/zeebo/assert"
	"github.com/zeebo/mwc"

	"github.com/histdb/blobset"
)

// Factory constructs an empty set. limit is the capacity ceiling; zero means
// blobset.MaxCapacity.
type Factory func(capacity, keySize, limit int, hash blobset.HashFunc) blobset.Set

// Key returns a size byte key derived from id. Distinct ids give distinct
// keys as long as size >= 4.
func Key(id uint32, size int) []byte {
	key := make([]byte, size)
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], id)
	copy(key, tmp[:])
	for i := 4; i < size; i++ {
		key[i] = byte(id>>(i%4*8)) ^ byte(i)
	}
	return key
}

// Constant is a hash function that sends every key to the same origin.
func Constant(h uint64) blobset.HashFunc {
	return func([]byte) uint64 { return h }
}

// Weak only looks at two bits of the first byte so most keys collide.
func Weak(key []byte) uint64 { return uint64(key[0] & 3) }

var hashes = []struct {
	name string
	fn   blobset.HashFunc
}{
	{"Default", nil},
	{"XXH3", blobset.XXH3},
	{"Weak", Weak},
}

// Run runs every conformance test against sets built by f.
func Run(t *testing.T, f Factory) {
	t.Run("Empty", func(t *testing.T) { testEmpty(t, f) })
	t.Run("RoundTrip", func(t *testing.T) { testRoundTrip(t, f) })
	t.Run("IdempotentAdd", func(t *testing.T) { testIdempotentAdd(t, f) })
	t.Run("CollidingRemove", func(t *testing.T) { testCollidingRemove(t, f) })
	t.Run("CollidingRemoveAll", func(t *testing.T) { testCollidingRemoveAll(t, f) })
	t.Run("LoadFactor", func(t *testing.T) { testLoadFactor(t, f) })
	t.Run("Growth", func(t *testing.T) { testGrowth(t, f) })
	t.Run("Saturation", func(t *testing.T) { testSaturation(t, f) })
	t.Run("Churn", func(t *testing.T) { testChurn(t, f) })
	t.Run("RangeClear", func(t *testing.T) { testRangeClear(t, f) })
	t.Run("KeySize", func(t *testing.T) { testKeySize(t, f) })
	t.Run("NegativeKeySize", func(t *testing.T) { testNegativeKeySize(t, f) })
	t.Run("Load", func(t *testing.T) { testLoad(t, f) })
	t.Run("Size", func(t *testing.T) { testSize(t, f) })
}

func testEmpty(t *testing.T, f Factory) {
	s := f(0, 8, 0, nil)

	assert.Equal(t, s.Len(), 0)
	assert.Equal(t, s.Cap(), blobset.MinCapacity)
	assert.Equal(t, s.KeySize(), 8)
	for i := uint32(0); i < 100; i++ {
		assert.That(t, !s.Contains(Key(i, 8)))
		assert.That(t, errors.Is(s.Remove(Key(i, 8)), blobset.ErrNotFound))
	}
	assert.Equal(t, s.Len(), 0)
}

func testRoundTrip(t *testing.T, f Factory) {
	for _, h := range hashes {
		t.Run(h.name, func(t *testing.T) {
			s := f(16, 8, 0, h.fn)

			for i := uint32(0); i < 1000; i++ {
				assert.NoError(t, s.Add(Key(i, 8)))
				assert.That(t, s.Contains(Key(i, 8)))
			}
			assert.Equal(t, s.Len(), 1000)

			for i := uint32(0); i < 1000; i += 2 {
				assert.NoError(t, s.Remove(Key(i, 8)))
				assert.That(t, !s.Contains(Key(i, 8)))
			}
			assert.Equal(t, s.Len(), 500)

			for i := uint32(0); i < 1000; i++ {
				assert.Equal(t, s.Contains(Key(i, 8)), i%2 == 1)
			}
		})
	}
}

func testIdempotentAdd(t *testing.T, f Factory) {
	s := f(0, 8, 0, nil)

	assert.NoError(t, s.Add(Key(7, 8)))
	assert.Equal(t, s.Len(), 1)
	assert.That(t, s.Contains(Key(7, 8)))

	assert.NoError(t, s.Add(Key(7, 8)))
	assert.Equal(t, s.Len(), 1)
	assert.That(t, s.Contains(Key(7, 8)))
}

func testCollidingRemove(t *testing.T, f Factory) {
	for _, h := range []uint64{0, 7, blobset.MinCapacity - 1} {
		s := f(blobset.MinCapacity, 8, 0, Constant(h))
		a, b, c := Key(1, 8), Key(2, 8), Key(3, 8)

		assert.NoError(t, s.Add(a))
		assert.NoError(t, s.Add(b))
		assert.NoError(t, s.Add(c))

		assert.NoError(t, s.Remove(a))
		assert.That(t, !s.Contains(a))
		assert.That(t, s.Contains(b))
		assert.That(t, s.Contains(c))
		assert.Equal(t, s.Len(), 2)
	}
}

// testCollidingRemoveAll removes each position of a colliding run, including
// runs that wrap around the end of the table, and checks the rest survive.
func testCollidingRemoveAll(t *testing.T, f Factory) {
	const n = 8

	for _, h := range []uint64{0, blobset.MinCapacity - 3} {
		// keys outside the run start two slots into it
		hash := func(key []byte) uint64 {
			if key[0] < n {
				return h
			}
			return h + 2
		}

		for victim := uint32(0); victim < n; victim++ {
			s := f(blobset.MinCapacity, 8, 0, hash)
			for i := uint32(0); i < n; i++ {
				assert.NoError(t, s.Add(Key(i, 8)))
			}

			assert.NoError(t, s.Remove(Key(victim, 8)))
			for i := uint32(0); i < n; i++ {
				assert.Equal(t, s.Contains(Key(i, 8)), i != victim)
			}

			other := Key(100, 8)
			assert.NoError(t, s.Add(other))
			assert.That(t, s.Contains(other))
			assert.NoError(t, s.Remove(Key((victim+1)%n, 8)))
			assert.That(t, s.Contains(other))
			assert.Equal(t, s.Len(), n-1)
		}
	}
}

func testLoadFactor(t *testing.T, f Factory) {
	s := f(0, 8, 0, nil)
	for i := uint32(0); i < 10000; i++ {
		assert.NoError(t, s.Add(Key(i, 8)))
		assert.That(t, blobset.WithinLoad(s.Len(), s.Cap()))
	}
}

func testGrowth(t *testing.T, f Factory) {
	const n = 100

	s := f(blobset.MinCapacity, 8, 0, nil)
	for i := uint32(0); i < n; i++ {
		assert.NoError(t, s.Add(Key(i, 8)))
	}

	assert.That(t, s.Cap() >= 4*blobset.MinCapacity)
	assert.Equal(t, s.Len(), n)
	for i := uint32(0); i < n; i++ {
		assert.That(t, s.Contains(Key(i, 8)))
	}
}

func testSaturation(t *testing.T, f Factory) {
	const limit = 4 * blobset.MinCapacity
	const most = limit * 3 / 4

	s := f(blobset.MinCapacity, 8, limit, nil)
	for i := uint32(0); i < most; i++ {
		assert.NoError(t, s.Add(Key(i, 8)))
	}
	assert.Equal(t, s.Cap(), limit)

	err := s.Add(Key(most, 8))
	assert.That(t, errors.Is(err, blobset.ErrSaturated))
	assert.Equal(t, s.Len(), most)
	assert.That(t, !s.Contains(Key(most, 8)))
	for i := uint32(0); i < most; i++ {
		assert.That(t, s.Contains(Key(i, 8)))
	}

	// present keys are still accepted when saturated
	assert.NoError(t, s.Add(Key(0, 8)))

	// removing makes room again
	assert.NoError(t, s.Remove(Key(0, 8)))
	assert.NoError(t, s.Add(Key(most, 8)))
	assert.That(t, s.Contains(Key(most, 8)))
	assert.Equal(t, s.Len(), most)
}

func testChurn(t *testing.T, f Factory) {
	const domain = 4096

	for _, h := range hashes {
		t.Run(h.name, func(t *testing.T) {
			rng := mwc.New(1, 1)
			bm := roaring.New()
			s := f(0, 12, 0, h.fn)

			ops := 100000
			if h.name == "Weak" {
				ops = 10000
			}

			for i := 0; i < ops; i++ {
				id := rng.Uint32n(domain)
				key := Key(id, 12)

				switch rng.Uint32n(3) {
				case 0, 1:
					assert.NoError(t, s.Add(key))
					bm.Add(id)
				case 2:
					err := s.Remove(key)
					if bm.Contains(id) {
						assert.NoError(t, err)
						bm.Remove(id)
					} else {
						assert.That(t, errors.Is(err, blobset.ErrNotFound))
					}
				}

				assert.Equal(t, uint64(s.Len()), bm.GetCardinality())
			}

			for id := uint32(0); id < domain; id++ {
				assert.Equal(t, s.Contains(Key(id, 12)), bm.Contains(id))
			}
		})
	}
}

func testRangeClear(t *testing.T, f Factory) {
	s := f(0, 8, 0, nil)
	for i := uint32(0); i < 500; i++ {
		assert.NoError(t, s.Add(Key(i, 8)))
	}

	seen := roaring.New()
	s.Range(func(key []byte) bool {
		id := binary.LittleEndian.Uint32(key)
		assert.That(t, !seen.Contains(id))
		seen.Add(id)
		return true
	})
	assert.Equal(t, seen.GetCardinality(), uint64(500))
	assert.Equal(t, seen.Maximum(), uint32(499))

	calls := 0
	s.Range(func([]byte) bool { calls++; return calls < 10 })
	assert.Equal(t, calls, 10)

	capacity := s.Cap()
	s.Clear()
	assert.Equal(t, s.Len(), 0)
	assert.Equal(t, s.Cap(), capacity)
	for i := uint32(0); i < 500; i++ {
		assert.That(t, !s.Contains(Key(i, 8)))
	}
	s.Range(func([]byte) bool { t.Fatal("range over cleared set"); return false })

	assert.NoError(t, s.Add(Key(1, 8)))
	assert.That(t, s.Contains(Key(1, 8)))
}

func testKeySize(t *testing.T, f Factory) {
	s := f(0, 8, 0, nil)

	defer func() { assert.That(t, recover() != nil) }()
	_ = s.Add(Key(1, 4))
}

func testNegativeKeySize(t *testing.T, f Factory) {
	defer func() { assert.That(t, recover() != nil) }()
	_ = f(0, -1, 0, nil)
}

func testLoad(t *testing.T, f Factory) {
	s := f(blobset.MinCapacity, 8, 0, nil)
	assert.Equal(t, s.Load(), 0.0)

	for i := uint32(0); i < 12; i++ {
		assert.NoError(t, s.Add(Key(i, 8)))
	}
	assert.Equal(t, s.Cap(), blobset.MinCapacity)
	assert.Equal(t, s.Load(), 0.75)

	assert.NoError(t, s.Add(Key(12, 8)))
	assert.Equal(t, s.Load(), 13.0/32)

	for i := uint32(0); i < 1000; i++ {
		assert.NoError(t, s.Add(Key(i, 8)))
		assert.That(t, s.Load() <= 0.75)
		assert.Equal(t, s.Load(), float64(s.Len())/float64(s.Cap()))
	}

	assert.NoError(t, s.Remove(Key(0, 8)))
	assert.Equal(t, s.Load(), float64(999)/float64(s.Cap()))
}

func testSize(t *testing.T, f Factory) {
	s := f(0, 8, 0, nil)
	empty := s.Size()
	assert.That(t, empty > 0)

	for i := uint32(0); i < 1000; i++ {
		assert.NoError(t, s.Add(Key(i, 8)))
	}
	full := s.Size()
	assert.That(t, full > empty)

	// at least the key bytes are accounted for
	assert.That(t, full >= uint64(1000*8))
}
