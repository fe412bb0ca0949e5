// Package metrics provides the fairness and classification metrics used to
// evaluate debiased training runs.
package metrics

import (
	"fmt"
	"math"

	"github.com/giordanoDaloisio/demv/pkg/dataset"
)

// groupProbabilities returns P(label==positive) inside and outside the
// unprivileged group.
func groupProbabilities(pred *dataset.Dataset, group dataset.Condition, label string, positive float64) (unpriv, priv float64, err error) {
	groupTotal, err := pred.CountWhere(group)
	if err != nil {
		return 0, 0, err
	}
	groupPositive, err := pred.CountWhere(group.And(label, positive))
	if err != nil {
		return 0, 0, err
	}
	positiveTotal, err := pred.CountWhere(dataset.Condition{}.And(label, positive))
	if err != nil {
		return 0, 0, err
	}

	restTotal := pred.Len() - groupTotal
	if groupTotal == 0 || restTotal == 0 {
		return 0, 0, fmt.Errorf("group %s does not split the dataset: %w", group, dataset.ErrEmptyDataset)
	}

	unpriv = float64(groupPositive) / float64(groupTotal)
	priv = float64(positiveTotal-groupPositive) / float64(restTotal)
	return unpriv, priv, nil
}

// StatisticalParity is the difference between the positive-label
// probability of the unprivileged group and that of everyone else. Zero
// means parity; negative values disadvantage the unprivileged group.
func StatisticalParity(pred *dataset.Dataset, group dataset.Condition, label string, positive float64) (float64, error) {
	unpriv, priv, err := groupProbabilities(pred, group, label, positive)
	if err != nil {
		return 0, err
	}
	return unpriv - priv, nil
}

// DisparateImpact is the smaller of the two ratios between the group
// positive-label probabilities, so 1 means parity regardless of which group
// is favored. When the unprivileged probability is zero the raw ratio is
// returned.
func DisparateImpact(pred *dataset.Dataset, group dataset.Condition, label string, positive float64) (float64, error) {
	unpriv, priv, err := groupProbabilities(pred, group, label, positive)
	if err != nil {
		return 0, err
	}
	if unpriv == 0 {
		return unpriv / priv, nil
	}
	return math.Min(unpriv/priv, priv/unpriv), nil
}

// ZeroOneLossDiff computes the spread (max minus min) of the zero-one loss
// across the groups induced by the sensitive feature values of each sample.
func ZeroOneLossDiff(yTrue, yPred []float64, sensitive [][]float64) (float64, error) {
	if len(yTrue) != len(yPred) || len(yTrue) != len(sensitive) {
		return 0, fmt.Errorf("got %d labels, %d predictions and %d sensitive rows: %w", len(yTrue), len(yPred), len(sensitive), dataset.ErrSchemaMismatch)
	}

	wrong := map[string]int{}
	total := map[string]int{}
	for i := range yTrue {
		key := fmt.Sprint(sensitive[i])
		total[key]++
		if yTrue[i] != yPred[i] {
			wrong[key]++
		}
	}

	minLoss, maxLoss := math.Inf(1), math.Inf(-1)
	for key, n := range total {
		loss := float64(wrong[key]) / float64(n)
		minLoss = math.Min(minLoss, loss)
		maxLoss = math.Max(maxLoss, loss)
	}
	return maxLoss - minLoss, nil
}
