// Package harness prints the jump-ahead check used to compare the
// xoshiro256++ implementation against the reference C program.
package harness

import (
	"bufio"
	"fmt"
	"io"

	"github.com/xor-shift/mcprng/util/rng"
)

// DefaultSeed is SeedSequence32{0xb76a074c, 0x23c70376, 0x7710e1d7,
// 0x56f73ae9}.GenerateState(8) packed into four words.
var DefaultSeed = [4]uint64{
	0xb5bb44b2f431cc88,
	0xe3977bacb2e89874,
	0xb18b61e29d0ba2f2,
	0x2480e33bf72adfa6,
}

const DefaultRounds = 3

type Harness struct {
	seed  [4]uint64
	state *rng.Xoshiro256PPState
}

func New(seed [4]uint64) (*Harness, error) {
	state, err := rng.NewXoshiro256PPFromState(seed)
	if err != nil {
		return nil, err
	}

	return &Harness{seed: seed, state: state}, nil
}

// Run writes rounds iterations of the check to w. Round c resets to the
// seed, advances twice and jumps c times (c > 0), prints the state,
// discards two outputs, prints the next two and jumps once more.
func (h *Harness) Run(w io.Writer, rounds int) error {
	out := bufio.NewWriter(w)

	for c := 0; c < rounds; c++ {
		h.state.State = h.seed

		if c > 0 {
			_ = h.state.Next()
			_ = h.state.Next()

			for j := 0; j < c; j++ {
				h.state.Jump128()
			}
		}

		fmt.Fprintln(out, "State:")
		for _, word := range h.state.State {
			fmt.Fprintf(out, "%x\n", word)
		}

		_ = h.state.Next()
		_ = h.state.Next()

		fmt.Fprintln(out, "Results in hexadecimal:")
		for i := 0; i < 2; i++ {
			fmt.Fprintf(out, "%x\n", h.state.Next())
		}

		// overwritten by the next reset
		h.state.Jump128()
	}

	fmt.Fprintln(out, "Finished!!")

	return out.Flush()
}
