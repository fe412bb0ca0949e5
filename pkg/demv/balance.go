package demv

import (
	"fmt"
	"log"
	"math"
	"math/rand"

	"github.com/giordanoDaloisio/demv/pkg/dataset"
)

// roundTo rounds x to the given number of decimal places. A non-positive
// level disables rounding, requiring exact convergence.
func roundTo(x float64, level int) float64 {
	if level <= 0 {
		return x
	}
	p := math.Pow(10, float64(level))
	return math.Round(x*p) / p
}

// balanceGroup resamples one sensitive group until its observed weight
// matches its expected weight. The group grows or shrinks by exactly one
// row per iteration: a uniformly drawn row is duplicated while the group is
// under-represented (disparity above 1) and removed while it is
// over-represented. The total dataset size stays fixed at its original
// value, so the loop walks the discrete set of ratios wExp*total/n.
//
// stop caps the number of iterations; a negative stop runs to convergence.
// The returned trace holds the disparity before balancing and after every
// step.
func balanceGroup(wExp, wObs float64, group *dataset.Dataset, total int, roundLevel int, debug bool, stop int, rng *rand.Rand) (*dataset.Dataset, []float64, int, error) {
	g := group.Copy()
	disp := roundTo(wExp/wObs, roundLevel)
	trace := []float64{disp}
	iters := 0

	for disp != 1 && iters != stop {
		if g.Len() == 0 {
			return nil, nil, 0, fmt.Errorf("after %d iterations: %w", iters, ErrEmptyGroup)
		}
		i, err := g.Sample(rng)
		if err != nil {
			return nil, nil, 0, err
		}
		if disp > 1 {
			g.Append(g.Rows[i])
		} else {
			g.Remove(i)
		}

		wObs = float64(g.Len()) / float64(total)
		disp = roundTo(wExp/wObs, roundLevel)
		trace = append(trace, disp)
		if debug {
			log.Printf("w_exp/w_obs: %f", wExp/wObs)
		}
		iters++
	}

	return g, trace, iters, nil
}
