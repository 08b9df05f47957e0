// Package blobset holds the pieces shared by the set implementations over
// fixed-size binary keys: hash functions, capacity policy and errors.
//
// Two implementations satisfy Set: oaset (open addressing with
// backward-shift deletion) and chainset (separate chaining).
package blobset

type Set interface {
	Add(key []byte) error
	Remove(key []byte) error
	Contains(key []byte) bool
	Len() int
	Cap() int
	KeySize() int
	Load() float64
	Range(fn func(key []byte) bool)
	Clear()
	Size() uint64
}
