// Package crossval evaluates classifiers with k-fold cross validation and
// sweeps the debiaser's iteration cap to trade fairness against accuracy.
package crossval

import (
	"fmt"
	"math/rand"
)

// Fold is one train/test split of row indices into the evaluated dataset.
type Fold struct {
	Train []int
	Test  []int
}

// KFold shuffles the row indices and partitions them into k folds. Each
// fold holds out one partition for testing and trains on the rest.
func KFold(samples, k int, rng *rand.Rand) ([]Fold, error) {
	if k < 2 {
		return nil, fmt.Errorf("need at least 2 folds, got %d", k)
	}
	if samples < k {
		return nil, fmt.Errorf("cannot split %d samples into %d folds", samples, k)
	}

	indices := rng.Perm(samples)

	folds := make([]Fold, k)
	for i := range folds {
		start := i * samples / k
		end := (i + 1) * samples / k
		test := indices[start:end]

		train := make([]int, 0, samples-len(test))
		train = append(train, indices[:start]...)
		train = append(train, indices[end:]...)

		folds[i] = Fold{Train: train, Test: test}
	}
	return folds, nil
}
