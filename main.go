package main

import (
	"os"

	"github.com/alecthomas/kong"

	"github.com/xor-shift/mcprng/harness"
	"github.com/xor-shift/mcprng/util"
)

func main() {
	args := struct {
		Rounds int    `name:"rounds" short:"r" default:"3" help:"Number of reset/jump rounds to print"`
		Seed   string `name:"seed" short:"s" help:"Four comma separated hex state words (default: the SeedSequence32 test seed)"`
	}{}

	ctx := kong.Parse(&args,
		kong.Name("mcprng"),
		kong.Description("Prints xoshiro256++ states and outputs across escalating jump counts."))

	seed := harness.DefaultSeed
	if args.Seed != "" {
		words, err := util.ParseHexWords(args.Seed, 64)
		ctx.FatalIfErrorf(err)

		if len(words) != len(seed) {
			ctx.Fatalf("expected %d seed words, got %d", len(seed), len(words))
		}
		copy(seed[:], words)
	}

	h, err := harness.New(seed)
	ctx.FatalIfErrorf(err)

	ctx.FatalIfErrorf(h.Run(os.Stdout, args.Rounds))
}
