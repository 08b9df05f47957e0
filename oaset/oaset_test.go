package oaset

import (
	"bytes"
	"testing"

	"github.com/zeebo/assert"
	"github.com/zeebo/mwc"

	"github.com/histdb/blobset"
	"github.com/histdb/blobset/settest"
)

func newLimited(capacity, keySize, limit int, hash blobset.HashFunc) blobset.Set {
	t := New(capacity, keySize, hash)
	if limit > 0 {
		t.limit = limit
	}
	return t
}

func TestSet(t *testing.T) {
	settest.Run(t, newLimited)
}

// checkReachable asserts that every entry is found by walking forward from
// its origin without crossing an EMPTY slot, and that the count matches.
func checkReachable(t *testing.T, s *T) {
	t.Helper()

	full := 0
	for i := range s.slots {
		if !s.slots[i].full {
			continue
		}
		full++

		j := s.origin(s.slots[i].hash)
		for j != i {
			assert.That(t, s.slots[j].full)
			j = s.next(j)
		}
	}
	assert.Equal(t, full, s.eles)
}

func TestBackwardShift(t *testing.T) {
	rng := mwc.New(1, 1)

	// few origins so runs are long and wrap
	hash := func(key []byte) uint64 { return uint64(key[0]%5) * 7 }

	s := New(blobset.MinCapacity, 8, hash)
	var live [][]byte

	for i := 0; i < 2000; i++ {
		if len(live) > 0 && (rng.Uint32n(3) == 0 || len(live) >= 200) {
			idx := int(rng.Uint32n(uint32(len(live))))
			assert.NoError(t, s.Remove(live[idx]))
			live[idx] = live[len(live)-1]
			live = live[:len(live)-1]
		} else {
			key := settest.Key(rng.Uint32(), 8)
			if !s.Contains(key) {
				live = append(live, key)
			}
			assert.NoError(t, s.Add(key))
		}

		checkReachable(t, s)
		assert.Equal(t, s.Len(), len(live))
	}

	for _, key := range live {
		assert.That(t, s.Contains(key))
	}
}

func TestShiftWrap(t *testing.T) {
	s := New(blobset.MinCapacity, 8, settest.Constant(blobset.MinCapacity-2))

	keys := [][]byte{settest.Key(1, 8), settest.Key(2, 8), settest.Key(3, 8), settest.Key(4, 8)}
	for _, key := range keys {
		assert.NoError(t, s.Add(key))
	}

	// the run occupies 14, 15, 0, 1
	assert.That(t, bytes.Equal(s.key(14), keys[0]))
	assert.That(t, bytes.Equal(s.key(1), keys[3]))

	assert.NoError(t, s.Remove(keys[1]))
	assert.That(t, bytes.Equal(s.key(15), keys[2]))
	assert.That(t, bytes.Equal(s.key(0), keys[3]))
	assert.That(t, !s.slots[1].full)
	checkReachable(t, s)
}

func TestOnPath(t *testing.T) {
	type tc struct {
		origin, x, cur int
		want           bool
	}
	for _, c := range []tc{
		{origin: 2, x: 2, cur: 5, want: true},
		{origin: 2, x: 4, cur: 5, want: true},
		{origin: 2, x: 5, cur: 5, want: false},
		{origin: 2, x: 1, cur: 5, want: false},
		{origin: 3, x: 4, cur: 3, want: false},
		{origin: 14, x: 15, cur: 1, want: true},
		{origin: 14, x: 0, cur: 1, want: true},
		{origin: 14, x: 1, cur: 1, want: false},
		{origin: 14, x: 13, cur: 1, want: false},
		{origin: 14, x: 5, cur: 1, want: false},
	} {
		assert.Equal(t, onPath(c.origin, c.x, c.cur), c.want)
	}
}

func TestRehashUsesStoredHash(t *testing.T) {
	calls := 0
	hash := func(key []byte) uint64 { calls++; return blobset.DJB2(key) }

	s := New(blobset.MinCapacity, 8, hash)
	for i := uint32(0); i < 12; i++ {
		assert.NoError(t, s.Add(settest.Key(i, 8)))
	}
	assert.Equal(t, calls, 12)
	assert.Equal(t, s.Cap(), blobset.MinCapacity)

	assert.NoError(t, s.Add(settest.Key(12, 8)))
	assert.Equal(t, calls, 13)
	assert.Equal(t, s.Cap(), 2*blobset.MinCapacity)
	checkReachable(t, s)
}

func TestDestroy(t *testing.T) {
	s := New(0, 8, nil)
	assert.NoError(t, s.Add(settest.Key(1, 8)))

	s.Destroy()
	assert.Equal(t, s.Len(), 0)
	assert.Equal(t, s.Cap(), 0)
	assert.That(t, !s.Contains(settest.Key(1, 8)))
}

func TestSize(t *testing.T) {
	s := New(0, 8, nil)
	before := s.Size()
	for i := uint32(0); i < 100; i++ {
		assert.NoError(t, s.Add(settest.Key(i, 8)))
	}
	assert.That(t, s.Size() > before)
}
