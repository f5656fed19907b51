package rng

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// NumPy SeedSequence hashing constants.
// https://github.com/numpy/numpy/blob/main/numpy/random/bit_generator.pyx
const (
	DefaultPoolSize = 4
	MinimumPoolSize = 4

	initA    uint32 = 0x43b0d7e5
	multA    uint32 = 0x931e8875
	initB    uint32 = 0x8b51f9dd
	multB    uint32 = 0x58f38ded
	mixMultL uint32 = 0xca01f9dd
	mixMultR uint32 = 0x4973f715
	xShift          = 16
)

func mix(x, y uint32) uint32 {
	result := mixMultL*x - mixMultR*y
	return result ^ (result >> xShift)
}

type hashMix struct {
	hashConst uint32
}

func (h *hashMix) mix(value uint32) uint32 {
	value ^= h.hashConst
	h.hashConst *= multA
	value *= h.hashConst
	value ^= value >> xShift
	return value
}

// SeedSequence32 turns low-quality entropy into well-mixed seed words and
// spawns independent child sequences. Its outputs match NumPy's
// SeedSequence for the same entropy, pool size and spawn key.
type SeedSequence32 struct {
	entropy         []uint32
	spawnKey        []uint32
	poolSize        int
	childrenSpawned uint32
	pool            []uint32
}

func NewSeedSequence32(entropy []uint32, poolSize int) (*SeedSequence32, error) {
	return newSeedSequence32(entropy, poolSize, nil)
}

// NewSeedSequenceFromString hashes text into eight entropy words.
func NewSeedSequenceFromString(seed string, poolSize int) (*SeedSequence32, error) {
	sum := blake2b.Sum256([]byte(seed))

	entropy := make([]uint32, len(sum)/4)
	for i := range entropy {
		entropy[i] = binary.LittleEndian.Uint32(sum[i*4:])
	}

	return NewSeedSequence32(entropy, poolSize)
}

func newSeedSequence32(entropy []uint32, poolSize int, spawnKey []uint32) (*SeedSequence32, error) {
	if len(entropy) == 0 {
		return nil, ErrEmptyEntropy
	}

	if poolSize < MinimumPoolSize {
		return nil, fmt.Errorf("%w: %d < %d", ErrPoolTooSmall, poolSize, MinimumPoolSize)
	}

	seq := &SeedSequence32{
		entropy:  append([]uint32(nil), entropy...),
		spawnKey: append([]uint32(nil), spawnKey...),
		poolSize: poolSize,
		pool:     make([]uint32, poolSize),
	}

	seq.mixEntropy(seq.assembledEntropy())

	return seq, nil
}

func (seq *SeedSequence32) assembledEntropy() []uint32 {
	runSize := len(seq.entropy)
	if len(seq.spawnKey) > 0 && runSize < seq.poolSize {
		// zero-pad so the spawn key cannot collide with plain entropy
		runSize = seq.poolSize
	}

	ret := make([]uint32, runSize+len(seq.spawnKey))
	copy(ret, seq.entropy)
	copy(ret[runSize:], seq.spawnKey)

	return ret
}

func (seq *SeedSequence32) mixEntropy(entropy []uint32) {
	h := hashMix{hashConst: initA}
	mixer := seq.pool

	for i := range mixer {
		if i < len(entropy) {
			mixer[i] = h.mix(entropy[i])
		} else {
			mixer[i] = h.mix(0)
		}
	}

	for iSrc := range mixer {
		for iDst := range mixer {
			if iSrc != iDst {
				mixer[iDst] = mix(mixer[iDst], h.mix(mixer[iSrc]))
			}
		}
	}

	for iSrc := len(mixer); iSrc < len(entropy); iSrc++ {
		for iDst := range mixer {
			mixer[iDst] = mix(mixer[iDst], h.mix(entropy[iSrc]))
		}
	}
}

// GenerateState returns nWords seed words derived from the pool.
func (seq *SeedSequence32) GenerateState(nWords int) []uint32 {
	state := make([]uint32, nWords)
	hashConst := initB

	for i := range state {
		dataVal := seq.pool[i%len(seq.pool)]
		dataVal ^= hashConst
		hashConst *= multB
		dataVal *= hashConst
		dataVal ^= dataVal >> xShift
		state[i] = dataVal
	}

	return state
}

// Spawn returns n children with spawn keys extending this sequence's key.
// Successive calls continue numbering where the previous call stopped.
func (seq *SeedSequence32) Spawn(n int) []*SeedSequence32 {
	children := make([]*SeedSequence32, n)

	for i := range children {
		children[i] = seq.Child(seq.childrenSpawned + uint32(i))
	}

	seq.childrenSpawned += uint32(n)

	return children
}

// Child returns the child with spawn key index without touching the
// spawn counter. Spawn(n) on a fresh sequence returns Child(0..n-1).
func (seq *SeedSequence32) Child(index uint32) *SeedSequence32 {
	key := make([]uint32, len(seq.spawnKey)+1)
	copy(key, seq.spawnKey)
	key[len(seq.spawnKey)] = index

	// entropy and pool size were validated when seq was built
	child, _ := newSeedSequence32(seq.entropy, seq.poolSize, key)

	return child
}

func (seq *SeedSequence32) Entropy() []uint32 {
	return append([]uint32(nil), seq.entropy...)
}

func (seq *SeedSequence32) SpawnKey() []uint32 {
	return append([]uint32(nil), seq.spawnKey...)
}

func (seq *SeedSequence32) PoolSize() int {
	return seq.poolSize
}

func (seq *SeedSequence32) ChildrenSpawned() int {
	return int(seq.childrenSpawned)
}
