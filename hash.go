package blobset

import (
	"github.com/zeebo/errs/v2"
	"github.com/zeebo/xxh3"
)

// HashFunc maps the bytes of a key to an unsigned hash. It is always called
// with exactly KeySize bytes.
type HashFunc func(key []byte) uint64

// DJB2 is the default hash: h = h*33 + b starting from 5381, wrapping.
func DJB2(key []byte) uint64 {
	h := uint64(5381)
	for _, b := range key {
		h = h<<5 + h + uint64(b)
	}
	return h
}

// XXH3 hashes the key with xxh3.
func XXH3(key []byte) uint64 { return xxh3.Hash(key) }

// OrDefault returns h, or DJB2 if h is nil.
func OrDefault(h HashFunc) HashFunc {
	if h == nil {
		return DJB2
	}
	return h
}

// HashByName resolves the names accepted on the command line.
func HashByName(name string) (HashFunc, error) {
	switch name {
	case "", "djb2":
		return DJB2, nil
	case "xxh3":
		return XXH3, nil
	default:
		return nil, errs.Errorf("unknown hash function: %q", name)
	}
}
