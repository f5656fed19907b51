package rng

import (
	"fmt"
	"math/bits"
)

// uint128 is hi:lo.
type uint128 struct {
	hi, lo uint64
}

func (a uint128) add(b uint128) uint128 {
	lo, carry := bits.Add64(a.lo, b.lo, 0)
	hi, _ := bits.Add64(a.hi, b.hi, carry)
	return uint128{hi: hi, lo: lo}
}

func (a uint128) mul(b uint128) uint128 {
	hi, lo := bits.Mul64(a.lo, b.lo)
	hi += a.hi*b.lo + a.lo*b.hi
	return uint128{hi: hi, lo: lo}
}

func (a uint128) isZero() bool {
	return a.hi == 0 && a.lo == 0
}

func (a uint128) rsh1() uint128 {
	return uint128{hi: a.hi >> 1, lo: a.lo>>1 | a.hi<<63}
}

var (
	pcgDefaultMultiplier = uint128{hi: 0x2360ed051fc65da4, lo: 0x4385df649fccf645}
	pcgCheapMultiplier   = uint128{lo: 0xda942042e4dd58b5}
)

// PCG64DXSMState is NumPy's PCG64DXSM bit generator: a 128-bit LCG with
// the cheap multiplier and the DXSM output permutation.
// https://github.com/numpy/numpy/blob/main/numpy/random/src/pcg64/pcg64.h
type PCG64DXSMState struct {
	state uint128
	inc   uint128
}

// NewPCG64DXSMFromSeedSequence seeds from eight SeedSequence32 words.
func NewPCG64DXSMFromSeedSequence(words []uint32) (*PCG64DXSMState, error) {
	if len(words) < SeedSeqNumWords {
		return nil, fmt.Errorf("%w: got %d, need %d", ErrShortSeed, len(words), SeedSeqNumWords)
	}

	v := packWords(words[:SeedSeqNumWords])
	initState := uint128{hi: v[0], lo: v[1]}
	initSeq := uint128{hi: v[2], lo: v[3]}

	p := &PCG64DXSMState{
		inc: uint128{hi: initSeq.hi<<1 | initSeq.lo>>63, lo: initSeq.lo<<1 | 1},
	}

	p.stepDefault()
	p.state = p.state.add(initState)
	p.stepDefault()

	return p, nil
}

// NewPCG64DXSM is a convenience over a fresh SeedSequence32.
func NewPCG64DXSM(seq *SeedSequence32) (*PCG64DXSMState, error) {
	return NewPCG64DXSMFromSeedSequence(seq.GenerateState(SeedSeqNumWords))
}

// only used while seeding
func (p *PCG64DXSMState) stepDefault() {
	p.state = p.state.mul(pcgDefaultMultiplier).add(p.inc)
}

func (p *PCG64DXSMState) stepCheap() {
	p.state = p.state.mul(pcgCheapMultiplier).add(p.inc)
}

func (p *PCG64DXSMState) Next() uint64 {
	hi := p.state.hi
	lo := p.state.lo | 1

	hi ^= hi >> 32
	hi *= pcgCheapMultiplier.lo
	hi ^= hi >> 48
	hi *= lo

	p.stepCheap()

	return hi
}

// Advance moves the generator deltaHi:deltaLo steps forward in O(log n).
func (p *PCG64DXSMState) Advance(deltaHi, deltaLo uint64) {
	delta := uint128{hi: deltaHi, lo: deltaLo}

	accMult := uint128{lo: 1}
	accPlus := uint128{}
	curMult := pcgCheapMultiplier
	curPlus := p.inc

	for !delta.isZero() {
		if delta.lo&1 != 0 {
			accMult = accMult.mul(curMult)
			accPlus = accPlus.mul(curMult).add(curPlus)
		}
		curPlus = curMult.add(uint128{lo: 1}).mul(curPlus)
		curMult = curMult.mul(curMult)
		delta = delta.rsh1()
	}

	p.state = accMult.mul(p.state).add(accPlus)
}

func (p *PCG64DXSMState) Uint64() uint64 {
	return p.Next()
}

// State returns the raw 128-bit state and increment as hi, lo pairs.
func (p *PCG64DXSMState) State() (stateHi, stateLo, incHi, incLo uint64) {
	return p.state.hi, p.state.lo, p.inc.hi, p.inc.lo
}

func (p *PCG64DXSMState) String() string {
	return fmt.Sprintf("%016x%016x/%016x%016x", p.state.hi, p.state.lo, p.inc.hi, p.inc.lo)
}
