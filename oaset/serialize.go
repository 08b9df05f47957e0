package oaset

import (
	"github.com/histdb/blobset"
	"github.com/histdb/blobset/rwutils"
)

func (t *T) AppendTo(w *rwutils.W) { blobset.AppendTo(t, w) }

// ReadFrom replaces the contents of t with a set written by AppendTo. The
// keys are hashed with t's hash function. On error t is left unchanged.
func (t *T) ReadFrom(r *rwutils.R) {
	if s, ok := blobset.ReadFrom(t.ksize, r, t.fresh); ok {
		t.slots, t.keys, t.eles = s.slots, s.keys, s.eles
	}
}

func (t *T) fresh(capacity int) *T {
	s := &T{
		ksize: t.ksize,
		limit: t.limit,
		hash:  t.hash,
	}
	s.alloc(blobset.InitialCapacity(capacity, s.limit))
	return s
}
