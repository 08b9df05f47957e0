package blobset

import (
	"fmt"

	"github.com/zeebo/errs/v2"
)

var (
	// ErrNotFound is returned by Remove when the key is absent.
	ErrNotFound = errs.Errorf("blobset: key not found")

	// ErrSaturated is returned by Add when the table is at its capacity
	// ceiling and one more entry would exceed the load factor.
	ErrSaturated = errs.Errorf("blobset: capacity ceiling reached")
)

// CheckKey panics if key is not exactly size bytes long.
func CheckKey(key []byte, size int) {
	if len(key) != size {
		panic(fmt.Sprintf("blobset: key has %d bytes, set holds %d byte keys", len(key), size))
	}
}

// CheckKeySize panics if size is not a usable key size.
func CheckKeySize(size int) {
	if size < 0 {
		panic(fmt.Sprintf("blobset: key size is %d, must not be negative", size))
	}
}
