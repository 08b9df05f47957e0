package varint

import (
	"testing"

	"github.com/zeebo/assert"
	"github.com/zeebo/mwc"
)

func TestVarint(t *testing.T) {
	t.Run("Safe", func(t *testing.T) {
		for i := uint(0); i <= 64; i++ {
			var buf [9]byte

			nbytes := Append(&buf, 1<<i-1)
			assert.That(t, nbytes <= 9)
			dec, n, ok := Consume(buf[:nbytes])

			t.Logf("%-2d %064b %08b\n", i, dec, buf[:nbytes])

			assert.That(t, ok)
			assert.Equal(t, int(nbytes), n)
			assert.Equal(t, uint64(1<<i-1), dec)
		}
	})

	t.Run("Fast", func(t *testing.T) {
		for i := uint(0); i <= 64; i++ {
			var buf [9]byte

			nbytes := Append(&buf, 1<<i-1)
			assert.That(t, nbytes <= 9)
			n, dec := FastConsume(&buf)

			assert.Equal(t, nbytes, n)
			assert.Equal(t, uint64(1<<i-1), dec)
		}
	})

	t.Run("FastDirty", func(t *testing.T) {
		rng := mwc.New(1, 1)

		for i := uint(0); i <= 64; i++ {
			var buf [9]byte

			nbytes := Append(&buf, 1<<i-1)
			for j := nbytes; j < 9; j++ {
				buf[j] = uint8(rng.Uint64())
			}
			_, dec := FastConsume(&buf)

			assert.Equal(t, uint64(1<<i-1), dec)
		}
	})

	t.Run("Short", func(t *testing.T) {
		var buf [9]byte

		nbytes := Append(&buf, 1<<40)
		assert.That(t, nbytes > 1)

		_, _, ok := Consume(buf[:nbytes-1])
		assert.That(t, !ok)

		_, _, ok = Consume(nil)
		assert.That(t, !ok)
	})
}
