package rng

// uint53ToDouble maps the top 53 bits of a draw onto [0, 1), as NumPy's
// next_double does.
const uint53ToDouble = 1.0 / 9007199254740992.0

type Distributions struct {
	bits BitGenerator
}

func NewDistributions(bits BitGenerator) *Distributions {
	return &Distributions{bits: bits}
}

// RandomUnit returns the next draw from the half-open interval [0, 1).
func (d *Distributions) RandomUnit() float64 {
	return float64(d.bits.Next()>>11) * uint53ToDouble
}

// Fill returns a rows x cols grid of RandomUnit draws in row-major order.
func (d *Distributions) Fill(rows, cols int) [][]float64 {
	ret := make([][]float64, rows)

	for r := range ret {
		ret[r] = make([]float64, cols)
		for c := range ret[r] {
			ret[r][c] = d.RandomUnit()
		}
	}

	return ret
}
