// Package oaset is a set of fixed-size binary keys using open addressing
// with linear probing.
//
// Deletion uses backward shifting instead of tombstones: after a slot is
// vacated, later entries in the same run are pulled back into the hole when
// the hole lies on their probe path. An EMPTY slot therefore always ends
// every probe sequence that reaches it, and heavy delete/insert churn does
// not degrade lookups the way accumulated tombstones would.
//
// A T is not safe for concurrent use.
package oaset

import (
	"bytes"

	"github.com/histdb/blobset"
	"github.com/histdb/blobset/sizeof"
)

type slot struct {
	hash uint64
	full bool
}

type T struct {
	_ [0]func() // no equality

	slots []slot
	keys  []byte // slot i owns keys[i*ksize:(i+1)*ksize]
	ksize int
	eles  int
	limit int
	hash  blobset.HashFunc
}

var _ blobset.Set = (*T)(nil)

// New returns a set with at least capacity slots holding keys of exactly
// keySize bytes. A nil hash selects blobset.DJB2.
func New(capacity, keySize int, hash blobset.HashFunc) *T {
	blobset.CheckKeySize(keySize)

	t := &T{
		ksize: keySize,
		limit: blobset.MaxCapacity,
		hash:  blobset.OrDefault(hash),
	}
	t.alloc(blobset.InitialCapacity(capacity, t.limit))
	return t
}

func (t *T) alloc(n int) {
	t.slots = make([]slot, n)
	t.keys = make([]byte, n*t.ksize)
}

// Destroy releases the slot array. The set must not be used afterwards.
func (t *T) Destroy() {
	t.slots, t.keys, t.eles = nil, nil, 0
}

func (t *T) Len() int     { return t.eles }
func (t *T) Cap() int     { return len(t.slots) }
func (t *T) KeySize() int { return t.ksize }

func (t *T) Load() float64 {
	if len(t.slots) == 0 {
		return 0
	}
	return float64(t.eles) / float64(len(t.slots))
}

func (t *T) Size() uint64 {
	return 0 +
		/* slots */ sizeof.Slice(t.slots) +
		/* keys  */ sizeof.Slice(t.keys) +
		/* ksize */ 8 +
		/* eles  */ 8 +
		/* limit */ 8 +
		/* hash  */ 8 +
		0
}

func (t *T) key(i int) []byte {
	return t.keys[i*t.ksize : (i+1)*t.ksize : (i+1)*t.ksize]
}

func (t *T) next(i int) int {
	if i++; i == len(t.slots) {
		return 0
	}
	return i
}

func (t *T) origin(h uint64) int { return int(h % uint64(len(t.slots))) }

// find walks the probe sequence of key. It returns the index of the slot
// holding key and true, or the first EMPTY slot on the path and false. If
// neither exists the index is -1.
func (t *T) find(key []byte, h uint64) (int, bool) {
	if len(t.slots) == 0 {
		return -1, false
	}
	i := t.origin(h)
	for range len(t.slots) {
		s := &t.slots[i]
		if !s.full {
			return i, false
		}
		if s.hash == h && bytes.Equal(t.key(i), key) {
			return i, true
		}
		i = t.next(i)
	}
	return -1, false
}

func (t *T) Contains(key []byte) bool {
	blobset.CheckKey(key, t.ksize)
	_, ok := t.find(key, t.hash(key))
	return ok
}

// Add inserts key. Adding a present key is a no-op. It returns
// blobset.ErrSaturated, leaving the set unchanged, if the set cannot grow
// enough to hold another entry.
func (t *T) Add(key []byte) error {
	blobset.CheckKey(key, t.ksize)
	h := t.hash(key)

	i, ok := t.find(key, h)
	if ok {
		return nil
	}
	if !blobset.WithinLoad(t.eles+1, len(t.slots)) {
		if !t.grow() {
			return blobset.ErrSaturated
		}
		i, _ = t.find(key, h)
	}
	if i < 0 {
		return blobset.ErrSaturated
	}

	t.place(i, h, key)
	t.eles++
	return nil
}

func (t *T) place(i int, h uint64, key []byte) {
	t.slots[i] = slot{hash: h, full: true}
	copy(t.key(i), key)
}

// Remove deletes key, returning blobset.ErrNotFound if it is absent.
func (t *T) Remove(key []byte) error {
	blobset.CheckKey(key, t.ksize)

	i, ok := t.find(key, t.hash(key))
	if !ok {
		return blobset.ErrNotFound
	}

	t.slots[i] = slot{}
	t.eles--
	t.shift(i)
	return nil
}

// shift closes the hole at i by pulling later entries of the run back into
// it until an EMPTY slot ends the run.
func (t *T) shift(hole int) {
	for j := t.next(hole); j != hole; j = t.next(j) {
		s := t.slots[j]
		if !s.full {
			return
		}
		if !onPath(t.origin(s.hash), hole, j) {
			continue
		}
		t.slots[hole] = s
		copy(t.key(hole), t.key(j))
		t.slots[j] = slot{}
		hole = j
	}
}

// onPath reports if slot x is visited before slot cur by a probe sequence
// that starts at origin and reaches cur, i.e. if x is in the circular
// interval [origin, cur).
func onPath(origin, x, cur int) bool {
	if origin <= cur {
		return origin <= x && x < cur
	}
	return origin <= x || x < cur
}

// grow doubles the slot count, bounded by the limit, and rehashes every
// entry from its stored hash. It reports false without changing anything if
// the grown table still could not hold one more entry.
func (t *T) grow() bool {
	n, ok := blobset.GrowTo(t.eles, len(t.slots), t.limit)
	if !ok {
		return false
	}
	t.rehash(n)
	return true
}

func (t *T) rehash(n int) {
	slots, keys := t.slots, t.keys
	t.alloc(n)

	for i := range slots {
		s := slots[i]
		if !s.full {
			continue
		}
		j := t.origin(s.hash)
		for t.slots[j].full {
			j = t.next(j)
		}
		t.slots[j] = s
		copy(t.key(j), keys[i*t.ksize:(i+1)*t.ksize])
	}
}

// Clear removes every entry but keeps the capacity.
func (t *T) Clear() {
	clear(t.slots)
	t.eles = 0
}

// Range calls fn with every key in slot order until fn returns false. The
// slice passed to fn is only valid during the call and must not be
// modified, and fn must not modify the set.
func (t *T) Range(fn func(key []byte) bool) {
	for i := range t.slots {
		if t.slots[i].full && !fn(t.key(i)) {
			return
		}
	}
}
