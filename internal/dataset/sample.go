package dataset

import (
	"math"
	"math/rand"
)

// SampleSpec determines a reproducible subset of a Dataset: the same spec
// applied to the same dataset always selects the same rows.
type SampleSpec struct {
	Fraction        float64 `json:"fraction"`
	Seed            int64   `json:"seed"`
	WithReplacement bool    `json:"withReplacement"`
}

// Sample draws an approximate fraction of the dataset's rows using a
// pseudo-random stream seeded from spec.Seed.
//
// Without replacement each row is kept independently with probability
// Fraction (Bernoulli sampling). With replacement each row is emitted k
// times where k is a Poisson draw with mean Fraction. Both modes match the
// expected fraction, not an exact count; the output size varies between
// specs but never between repeated calls with the same spec.
func Sample(d *Dataset, spec SampleSpec) (*Dataset, error) {
	if spec.Fraction <= 0 || spec.Fraction > 1 {
		return nil, &ValueError{Param: "fraction", Reason: "must be in (0, 1]"}
	}

	rng := rand.New(rand.NewSource(spec.Seed))
	out := make([]Row, 0, int(float64(len(d.rows))*spec.Fraction)+1)
	for _, r := range d.rows {
		if spec.WithReplacement {
			for k := poisson(rng, spec.Fraction); k > 0; k-- {
				out = append(out, r)
			}
		} else if rng.Float64() < spec.Fraction {
			out = append(out, r)
		}
	}
	return New(d.schema, out), nil
}

// poisson draws from Poisson(mean) by Knuth's inversion method. Fine for
// the small means used in sampling.
func poisson(rng *rand.Rand, mean float64) int {
	limit := math.Exp(-mean)
	k := 0
	p := 1.0
	for {
		p *= rng.Float64()
		if p <= limit {
			return k
		}
		k++
	}
}
