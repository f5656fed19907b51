package rng

import (
	"fmt"
	"math"
)

type Kind string

const (
	KindXoshiro256PP Kind = "xoshiro256pp"
	KindPCG64DXSM    Kind = "pcg64dxsm"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindXoshiro256PP, KindPCG64DXSM:
		return k, nil
	case "":
		return KindPCG64DXSM, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownGenerator, s)
	}
}

// XoshiroStreamState returns the seed words for stream index of a base
// seed: stream 0 is the base itself, stream c > 0 is the base advanced
// twice and then jumped c times. Feed the result to
// NewXoshiro256PPFromSeedSequence.
func XoshiroStreamState(base []uint32, index int) ([]uint32, error) {
	if index < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeStream, index)
	}

	if len(base) < SeedSeqNumWords {
		return nil, fmt.Errorf("%w: got %d, need %d", ErrShortSeed, len(base), SeedSeqNumWords)
	}

	var raw [4]uint64
	copy(raw[:], packWords(base[:SeedSeqNumWords]))

	state, err := NewXoshiro256PPFromState(raw)
	if err != nil {
		return nil, err
	}

	if index > 0 {
		_ = state.Next()
		_ = state.Next()

		for i := 0; i < index; i++ {
			state.Jump128()
		}
	}

	return state.SeedWords(), nil
}

// NewStream builds the generator of the given kind for stream index of seq.
// Xoshiro streams are separated by jumps, PCG streams by spawned children.
func NewStream(kind Kind, seq *SeedSequence32, index int) (BitGenerator, error) {
	if index < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeStream, index)
	}

	// PCG spawn keys are 32-bit
	if uint64(index) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d", ErrStreamRange, index)
	}

	switch kind {
	case KindXoshiro256PP:
		words, err := XoshiroStreamState(seq.GenerateState(SeedSeqNumWords), index)
		if err != nil {
			return nil, err
		}
		x, err := NewXoshiro256PPFromSeedSequence(words)
		if err != nil {
			return nil, err
		}
		return x, nil
	case KindPCG64DXSM:
		p, err := NewPCG64DXSM(seq.Child(uint32(index)))
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownGenerator, kind)
	}
}
