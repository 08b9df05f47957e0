package blobset

import (
	"math/bits"

	"github.com/zeebo/errs/v2"

	"github.com/histdb/blobset/rwutils"
)

// AppendTo writes the key size, capacity and every key of s. Both set
// implementations share the format, so either can read what the other wrote.
func AppendTo(s Set, w *rwutils.W) {
	w.Uint64(0) // version

	w.Varint(uint64(s.KeySize()))
	w.Varint(uint64(s.Cap()))
	w.Varint(uint64(s.Len()))

	s.Range(func(key []byte) bool {
		w.Bytes(key)
		return true
	})
}

// ReserveFor returns the capacity growth from MinCapacity reaches once it can
// hold n entries, capped at limit.
func ReserveFor(n, limit int) int {
	c := MinCapacity
	for c < limit && !WithinLoad(n, c) {
		c *= 2
	}
	return min(c, limit)
}

// ReadFrom reads a set written by AppendTo into a new set built by fresh,
// which is called with the capacity to start from. The written capacity is
// only honored up to what the written key count needs. It returns false,
// with the error recorded on r, if the input is invalid or a key cannot be
// added; the partially filled set is then discarded by the caller.
func ReadFrom[S Set](keySize int, r *rwutils.R, fresh func(capacity int) S) (S, bool) {
	var zero S

	if r.Uint64() != 0 {
		r.Invalid(errs.Errorf("blobset has unknown version"))
		return zero, false
	}

	ksize, capacity, n := r.Varint(), r.Varint(), r.Varint()
	if r.Err() != nil {
		return zero, false
	}
	if ksize != uint64(keySize) {
		r.Invalid(errs.Errorf("blobset key size mismatch: read %d, want %d", ksize, keySize))
		return zero, false
	}
	if n > MaxCapacity || !WithinLoad(int(n), MaxCapacity) || (ksize == 0 && n > 1) {
		r.Invalid(errs.Errorf("blobset has too many keys: %d", n))
		return zero, false
	}
	if hi, lo := bits.Mul64(n, ksize); hi > 0 || lo > uint64(r.Remaining()) {
		r.Invalid(errs.Errorf("blobset has too many keys: %d", n))
		return zero, false
	}

	s := fresh(min(int(min(capacity, MaxCapacity)), ReserveFor(int(n), MaxCapacity)))
	for range n {
		if err := s.Add(r.Bytes(int(ksize))); err != nil {
			r.Invalid(err)
			return zero, false
		}
	}
	return s, true
}
