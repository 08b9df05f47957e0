package blobset

import (
	"testing"

	"github.com/zeebo/assert"
	"github.com/zeebo/xxh3"
)

func TestDJB2(t *testing.T) {
	assert.Equal(t, DJB2(nil), uint64(5381))
	assert.Equal(t, DJB2([]byte("a")), uint64(5381*33+'a'))
	assert.Equal(t, DJB2([]byte("ab")), uint64((5381*33+'a')*33+'b'))

	// wraps instead of saturating
	long := make([]byte, 64)
	for i := range long {
		long[i] = 0xff
	}
	h := uint64(5381)
	for range long {
		h = h*33 + 0xff
	}
	assert.Equal(t, DJB2(long), h)
}

func TestHashByName(t *testing.T) {
	key := []byte("some key")

	h, err := HashByName("")
	assert.NoError(t, err)
	assert.Equal(t, h(key), DJB2(key))

	h, err = HashByName("xxh3")
	assert.NoError(t, err)
	assert.Equal(t, h(key), xxh3.Hash(key))

	_, err = HashByName("md5")
	assert.That(t, err != nil)

	assert.Equal(t, OrDefault(nil)(key), DJB2(key))
	assert.Equal(t, OrDefault(XXH3)(key), XXH3(key))
}
