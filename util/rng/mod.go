package rng

import (
	"errors"
	"unsafe"
)

var (
	ErrZeroState        = errors.New("generator state must not be everywhere zero")
	ErrShortSeed        = errors.New("not enough seed words")
	ErrEmptyEntropy     = errors.New("entropy cannot be empty")
	ErrPoolTooSmall     = errors.New("pool size is smaller than the minimum")
	ErrUnknownGenerator = errors.New("unknown generator kind")
	ErrNegativeStream   = errors.New("stream index cannot be negative")
	ErrStreamRange      = errors.New("stream index out of range")
)

// BitGenerator produces raw 64-bit outputs.
type BitGenerator interface {
	Next() uint64
}

func GenericRotLeft[T uint8 | uint16 | uint32 | uint64](x T, k int) T {
	bitWidth := int(unsafe.Sizeof(x) * 8)
	return (x << k) | (x >> (bitWidth - k))
}

// jumpImpl applies the jump polynomial in table to state. permute must
// advance state by exactly one step.
func jumpImpl[T uint8 | uint16 | uint32 | uint64](state []T, table []T, permute func([]T) T) {
	s := make([]T, len(state))

	var zero T
	bitWidth := int(unsafe.Sizeof(zero) * 8)

	for i := 0; i < len(table); i++ {
		for b := 0; b < bitWidth; b++ {
			if table[i]&(T(1)<<b) != 0 {
				for j := 0; j < len(state); j++ {
					s[j] ^= state[j]
				}
			}
			_ = permute(state)
		}
	}

	copy(state, s)
}

// packWords joins pairs of 32-bit words, low word first.
func packWords(words []uint32) []uint64 {
	ret := make([]uint64, len(words)/2)
	for i := range ret {
		ret[i] = uint64(words[2*i]) | uint64(words[2*i+1])<<32
	}
	return ret
}

// unpackWords is the inverse of packWords.
func unpackWords(words []uint64) []uint32 {
	ret := make([]uint32, 2*len(words))
	for i, w := range words {
		ret[2*i] = uint32(w)
		ret[2*i+1] = uint32(w >> 32)
	}
	return ret
}
