// Package chainset is a set of fixed-size binary keys using separate
// chaining: every bucket is a singly linked list of heap nodes, each owning a
// copy of its key. It satisfies the same contract as oaset.
//
// A T is not safe for concurrent use.
package chainset

import (
	"bytes"

	"github.com/histdb/blobset"
	"github.com/histdb/blobset/sizeof"
)

type node struct {
	_ [0]func() // no equality

	key  []byte
	hash uint64
	next *node
}

type T struct {
	_ [0]func() // no equality

	buckets []*node
	ksize   int
	eles    int
	limit   int
	hash    blobset.HashFunc
}

var _ blobset.Set = (*T)(nil)

// New returns a set with at least capacity buckets holding keys of exactly
// keySize bytes. A nil hash selects blobset.DJB2.
func New(capacity, keySize int, hash blobset.HashFunc) *T {
	blobset.CheckKeySize(keySize)

	t := &T{
		ksize: keySize,
		limit: blobset.MaxCapacity,
		hash:  blobset.OrDefault(hash),
	}
	t.buckets = make([]*node, blobset.InitialCapacity(capacity, t.limit))
	return t
}

// Destroy drops every node and the bucket array. The set must not be used
// afterwards.
func (t *T) Destroy() {
	t.buckets, t.eles = nil, 0
}

func (t *T) Len() int     { return t.eles }
func (t *T) Cap() int     { return len(t.buckets) }
func (t *T) KeySize() int { return t.ksize }

func (t *T) Load() float64 {
	if len(t.buckets) == 0 {
		return 0
	}
	return float64(t.eles) / float64(len(t.buckets))
}

func (t *T) Size() uint64 {
	return 0 +
		/* buckets */ sizeof.Slice(t.buckets) +
		/* nodes   */ uint64(t.eles)*(sizeof.Of[node]()+uint64(t.ksize)) +
		/* ksize   */ 8 +
		/* eles    */ 8 +
		/* limit   */ 8 +
		/* hash    */ 8 +
		0
}

func (t *T) bucket(h uint64) **node {
	return &t.buckets[h%uint64(len(t.buckets))]
}

// lookup returns the link pointing at the node holding key, or the nil link
// at the end of its bucket.
func (t *T) lookup(key []byte, h uint64) **node {
	link := t.bucket(h)
	for n := *link; n != nil; link, n = &n.next, n.next {
		if n.hash == h && bytes.Equal(n.key, key) {
			return link
		}
	}
	return link
}

func (t *T) Contains(key []byte) bool {
	blobset.CheckKey(key, t.ksize)
	if len(t.buckets) == 0 {
		return false
	}
	return *t.lookup(key, t.hash(key)) != nil
}

// Add inserts key. Adding a present key is a no-op. It returns
// blobset.ErrSaturated, leaving the set unchanged, if the set cannot grow
// enough to hold another entry.
func (t *T) Add(key []byte) error {
	blobset.CheckKey(key, t.ksize)
	h := t.hash(key)

	if len(t.buckets) > 0 && *t.lookup(key, h) != nil {
		return nil
	}
	if !blobset.WithinLoad(t.eles+1, len(t.buckets)) && !t.grow() {
		return blobset.ErrSaturated
	}

	b := t.bucket(h)
	*b = &node{
		key:  append(make([]byte, 0, len(key)), key...),
		hash: h,
		next: *b,
	}
	t.eles++
	return nil
}

// Remove unlinks key, returning blobset.ErrNotFound if it is absent.
func (t *T) Remove(key []byte) error {
	blobset.CheckKey(key, t.ksize)
	if len(t.buckets) == 0 {
		return blobset.ErrNotFound
	}

	link := t.lookup(key, t.hash(key))
	n := *link
	if n == nil {
		return blobset.ErrNotFound
	}

	*link, n.next = n.next, nil
	t.eles--
	return nil
}

func (t *T) grow() bool {
	c, ok := blobset.GrowTo(t.eles, len(t.buckets), t.limit)
	if !ok {
		return false
	}

	buckets := t.buckets
	t.buckets = make([]*node, c)
	for _, n := range buckets {
		for n != nil {
			next := n.next
			b := t.bucket(n.hash)
			n.next, *b = *b, n
			n = next
		}
	}
	return true
}

// Clear removes every entry but keeps the bucket count.
func (t *T) Clear() {
	clear(t.buckets)
	t.eles = 0
}

// Range calls fn with every key in bucket order until fn returns false. The
// slice passed to fn must not be modified, and fn must not modify the set.
func (t *T) Range(fn func(key []byte) bool) {
	for _, n := range t.buckets {
		for ; n != nil; n = n.next {
			if !fn(n.key) {
				return
			}
		}
	}
}
