package sizeof

import "unsafe"

func Slice[T any](v []T) uint64 {
	return 24 + Of[T]()*uint64(cap(v))
}

func Of[T any]() uint64 { return uint64(unsafe.Sizeof(*new(T))) }
