package varint

import (
	"encoding/binary"
	"math/bits"
)

var le = binary.LittleEndian

//
// prefix varint: the count of trailing one bits in the first byte, plus one,
// is the encoded length. nine byte values store the full uint64 after 0xff.
//

func Append(dst *[9]byte, val uint64) (nbytes uintptr) {
	nbytes = 575*uintptr(bits.Len64(val))/4096 + 1

	if nbytes < 9 {
		enc := val<<nbytes + 1<<((nbytes-1)&63) - 1
		le.PutUint64(dst[:], enc)
		return
	}

	dst[0] = 0xff
	le.PutUint64(dst[1:], val)
	return
}

func FastConsume(src *[9]byte) (nbytes uintptr, dec uint64) {
	nbytes = uintptr(bits.TrailingZeros8(^src[0])) + 1

	if nbytes < 9 {
		dec = le.Uint64(src[:]) >> nbytes
		dec &= 1<<((8*nbytes-nbytes)&63) - 1
		return
	}

	dec = le.Uint64(src[1:])
	return
}

// Consume decodes a varint from the front of buf, returning the value and
// the number of bytes used. ok is false if buf is too short.
func Consume(buf []byte) (dec uint64, nbytes int, ok bool) {
	if len(buf) == 0 {
		return 0, 0, false
	}
	nbytes = bits.TrailingZeros8(^buf[0]) + 1
	if nbytes > len(buf) {
		return 0, 0, false
	}

	var tmp [9]byte
	copy(tmp[:], buf[:nbytes])
	_, dec = FastConsume(&tmp)
	return dec, nbytes, true
}
