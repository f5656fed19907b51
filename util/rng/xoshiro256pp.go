package rng

import (
	"fmt"
)

// SeedSeqNumWords is the number of SeedSequence32 words consumed when
// seeding a Xoshiro256PPState.
const SeedSeqNumWords = 8

// Xoshiro256PPState is the xoshiro256++ generator by Blackman and Vigna.
// It implements math/rand.Source64.
type Xoshiro256PPState struct {
	State [4]uint64
}

func NewXoshiro256PP() *Xoshiro256PPState {
	state := Xoshiro256PPState{
		State: [4]uint64{0, 0, 0, 0},
	}

	return &state
}

// NewXoshiro256PPFromState wraps the raw state words as given.
func NewXoshiro256PPFromState(words [4]uint64) (*Xoshiro256PPState, error) {
	if words == [4]uint64{} {
		return nil, ErrZeroState
	}

	return &Xoshiro256PPState{State: words}, nil
}

// NewXoshiro256PPFromSeedSequence seeds the generator from the output of
// SeedSequence32.GenerateState(SeedSeqNumWords) and then discards two
// steps.
func NewXoshiro256PPFromSeedSequence(words []uint32) (*Xoshiro256PPState, error) {
	if len(words) < SeedSeqNumWords {
		return nil, fmt.Errorf("%w: got %d, need %d", ErrShortSeed, len(words), SeedSeqNumWords)
	}

	var raw [4]uint64
	copy(raw[:], packWords(words[:SeedSeqNumWords]))

	state, err := NewXoshiro256PPFromState(raw)
	if err != nil {
		return nil, err
	}

	_ = state.Next()
	_ = state.Next()

	return state, nil
}

func (state *Xoshiro256PPState) Next() uint64 {
	return xoshiro256PPPermuteState(state.State[:])
}

// Jump128 is equivalent to 2^128 calls to Next.
func (state *Xoshiro256PPState) Jump128() {
	var jump = [4]uint64{
		0x180ec6d33cfd0aba,
		0xd5a61266f0c9392c,
		0xa9582618e03fc9aa,
		0x39abdc4529b1661c,
	}

	jumpImpl(state.State[:], jump[:], xoshiro256PPPermuteState)
}

// Jump192 is equivalent to 2^192 calls to Next.
func (state *Xoshiro256PPState) Jump192() {
	var jump = [4]uint64{
		0x76e15d3efefdcbbf,
		0xc5004e441c522fb3,
		0x77710069854ee241,
		0x39109bb02acbe635,
	}

	jumpImpl(state.State[:], jump[:], xoshiro256PPPermuteState)
}

// SeedWords returns the state as the eight 32-bit words that
// NewXoshiro256PPFromSeedSequence would pack into it.
func (state *Xoshiro256PPState) SeedWords() []uint32 {
	return unpackWords(state.State[:])
}

func (state *Xoshiro256PPState) Uint64() uint64 {
	return state.Next()
}

func (state *Xoshiro256PPState) Int63() int64 {
	return int64(state.Next() >> 1)
}

// Seed reseeds through a SeedSequence32 built from the two halves of seed.
func (state *Xoshiro256PPState) Seed(seed int64) {
	seq, err := NewSeedSequence32([]uint32{uint32(seed), uint32(uint64(seed) >> 32)}, DefaultPoolSize)
	if err != nil {
		return
	}

	// on error the old state is kept
	seeded, err := NewXoshiro256PPFromSeedSequence(seq.GenerateState(SeedSeqNumWords))
	if err != nil {
		return
	}

	state.State = seeded.State
}

func (state *Xoshiro256PPState) String() string {
	s := ""

	for i := 0; i < 4; i++ {
		s += fmt.Sprintf("%016x", state.State[i])
	}

	return s
}
