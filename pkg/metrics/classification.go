package metrics

import (
	"slices"
)

// Accuracy is the fraction of predictions matching the true labels.
func Accuracy(yTrue, yPred []float64) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(yTrue))
}

// WeightedF1 is the support-weighted mean of the per-class F1 scores.
func WeightedF1(yTrue, yPred []float64) float64 {
	classes := slices.Clone(yTrue)
	classes = append(classes, yPred...)
	slices.Sort(classes)
	classes = slices.Compact(classes)

	index := make(map[float64]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}

	confusion := make([][]int, len(classes))
	for i := range confusion {
		confusion[i] = make([]int, len(classes))
	}
	for i := range yTrue {
		confusion[index[yTrue[i]]][index[yPred[i]]]++
	}

	weighted := 0.0
	for i := range classes {
		truePositives := confusion[i][i]
		support := 0
		predicted := 0
		for j := range classes {
			support += confusion[i][j]
			predicted += confusion[j][i]
		}

		var precision, recall float64
		if predicted > 0 {
			precision = float64(truePositives) / float64(predicted)
		}
		if support > 0 {
			recall = float64(truePositives) / float64(support)
		}

		var f1 float64
		if precision+recall > 0 {
			f1 = 2 * precision * recall / (precision + recall)
		}
		weighted += f1 * float64(support)
	}

	if len(yTrue) == 0 {
		return 0
	}
	return weighted / float64(len(yTrue))
}
