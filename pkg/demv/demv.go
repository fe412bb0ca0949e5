// Package demv implements the Debiaser for Multiple Variables, a
// pre-processing fairness technique that resamples a labeled dataset so
// that, within every combination of protected attribute values, the label
// distribution approaches the one expected under statistical independence
// of attributes and label.
package demv

import (
	"fmt"
	"math/rand"

	"github.com/giordanoDaloisio/demv/pkg/dataset"
)

// DefaultSeed matches the fixed seed used for the final shuffle, keeping
// repeated runs bit-for-bit identical.
const DefaultSeed = 2

// DEMV balances a dataset's sensitive groups. RoundLevel is the number of
// decimal places at which the expected/observed weight ratio counts as
// converged to 1 (zero means exact). Stop caps the resampling iterations
// per group, with a negative value meaning unbounded. Debug logs the raw
// ratio at every step.
type DEMV struct {
	RoundLevel int
	Debug      bool
	Stop       int
	Seed       int64

	iters       int
	disparities [][]float64
}

// New returns a debiaser with the default shuffle seed.
func New(roundLevel int, debug bool, stop int) *DEMV {
	return &DEMV{
		RoundLevel: roundLevel,
		Debug:      debug,
		Stop:       stop,
		Seed:       DefaultSeed,
	}
}

// FitTransform balances the dataset's sensitive groups and returns the
// rebalanced dataset. The input is never mutated. The call fails atomically:
// no partially balanced dataset is ever returned.
func (d *DEMV) FitTransform(data *dataset.Dataset, protectedAttrs []string, label string) (*dataset.Dataset, error) {
	d.iters = 0
	d.disparities = nil

	rng := rand.New(rand.NewSource(d.Seed))
	out, disparities, iters, err := partition(data, protectedAttrs, label, d.RoundLevel, d.Debug, d.Stop, rng)
	if err != nil {
		return nil, err
	}

	d.iters = iters
	d.disparities = disparities
	return out, nil
}

// Iters reports the maximum number of balancing iterations any group took
// during the last FitTransform. Callers sweeping the Stop parameter use it
// as the upper bound of the sweep.
func (d *DEMV) Iters() int {
	return d.iters
}

// Disparities returns the per-group disparity traces recorded during the
// last FitTransform.
func (d *DEMV) Disparities() [][]float64 {
	return d.disparities
}

// partition enumerates every combination of protected attribute values and
// every label value, balances each cell independently, and reassembles the
// cells into one shuffled dataset. Protected attributes are binary, so the
// 2^k combinations are enumerated by decoding the bits of [0, 2^k).
func partition(data *dataset.Dataset, protectedAttrs []string, label string, roundLevel int, debug bool, stop int, rng *rand.Rand) (*dataset.Dataset, [][]float64, int, error) {
	if data.Len() == 0 {
		return nil, nil, 0, ErrEmptyDataset
	}
	if _, err := data.ColumnIndex(label); err != nil {
		return nil, nil, 0, fmt.Errorf("label: %w", err)
	}

	// Each protected attribute must split the data two ways.
	values := make([][]float64, len(protectedAttrs))
	for i, attr := range protectedAttrs {
		distinct, err := data.Distinct(attr)
		if err != nil {
			return nil, nil, 0, fmt.Errorf("protected attribute: %w", err)
		}
		if len(distinct) != 2 {
			return nil, nil, 0, fmt.Errorf("%q has %d distinct values: %w", attr, len(distinct), ErrCardinality)
		}
		values[i] = distinct
	}

	labels, err := data.Distinct(label)
	if err != nil {
		return nil, nil, 0, err
	}

	total := data.Len()
	groups := make([]*dataset.Dataset, 0, (1<<len(protectedAttrs))*len(labels))
	disparities := make([][]float64, 0, cap(groups))
	maxIters := 0

	for combo := 0; combo < 1<<len(protectedAttrs); combo++ {
		cond := dataset.Condition{}
		for i, attr := range protectedAttrs {
			cond = cond.And(attr, values[i][(combo>>i)&1])
		}

		condCount, err := data.CountWhere(cond)
		if err != nil {
			return nil, nil, 0, err
		}

		for _, l := range labels {
			labelCount, err := data.CountWhere(dataset.Condition{}.And(label, l))
			if err != nil {
				return nil, nil, 0, err
			}
			group, err := data.Filter(cond.And(label, l))
			if err != nil {
				return nil, nil, 0, err
			}

			wExp := (float64(condCount) / float64(total)) * (float64(labelCount) / float64(total))
			wObs := float64(group.Len()) / float64(total)
			if wObs == 0 {
				return nil, nil, 0, fmt.Errorf("group %s&%s=%g: %w", cond, label, l, ErrZeroProbability)
			}

			balanced, trace, iters, err := balanceGroup(wExp, wObs, group, total, roundLevel, debug, stop, rng)
			if err != nil {
				return nil, nil, 0, fmt.Errorf("group %s&%s=%g: %w", cond, label, l, err)
			}

			groups = append(groups, balanced)
			disparities = append(disparities, trace)
			if iters > maxIters {
				maxIters = iters
			}
		}
	}

	out := dataset.New(data.Columns)
	if err := out.Concat(groups...); err != nil {
		return nil, nil, 0, err
	}
	out.Shuffle(rng)

	return out, disparities, maxIters, nil
}
