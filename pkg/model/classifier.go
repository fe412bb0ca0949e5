// Package model trains and applies the softmax-regression classifier used
// to evaluate debiased datasets.
package model

import (
	"fmt"
	"slices"

	"github.com/giordanoDaloisio/demv/pkg/dataset"
	"github.com/jedib0t/go-pretty/v6/progress"
	"gorgonia.org/tensor"
)

// Classifier wraps the softmax regression with the dataset plumbing: the
// label column is dropped to form the feature matrix and label values are
// mapped onto contiguous class indices for training.
type Classifier struct {
	Epochs    int
	LearnRate float64
	L2Penalty float64

	weights []tensor.Tensor
	classes []float64
}

// NewClassifier returns a classifier with the default hyperparameters.
func NewClassifier() *Classifier {
	return &Classifier{
		Epochs:    100,
		LearnRate: 0.01,
		L2Penalty: 0.01,
	}
}

// Fit trains the classifier on the labeled dataset.
func (c *Classifier) Fit(pw progress.Writer, train *dataset.Dataset, label string) error {
	classes, err := train.Distinct(label)
	if err != nil {
		return err
	}
	if len(classes) < 2 {
		return fmt.Errorf("need at least two label values, got %d: %w", len(classes), dataset.ErrSchemaMismatch)
	}
	c.classes = classes

	features, labels, err := c.split(train, label)
	if err != nil {
		return err
	}

	weights, err := Train(pw, features, labels, len(classes), c.Epochs, c.LearnRate, c.L2Penalty)
	if err != nil {
		return fmt.Errorf("training error: %v", err)
	}
	c.weights = weights
	return nil
}

// PredictDataset classifies every row of the dataset and returns the
// predicted label values.
func (c *Classifier) PredictDataset(test *dataset.Dataset, label string) ([]float64, error) {
	if c.weights == nil {
		return nil, fmt.Errorf("classifier is not fitted")
	}

	features, _, err := c.split(test, label)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(features))
	for i, row := range features {
		probs, err := Predict(c.weights, row)
		if err != nil {
			return nil, fmt.Errorf("prediction error for sample %d: %v", i, err)
		}
		out[i] = c.classes[argmax(probs)]
	}
	return out, nil
}

// split separates the dataset into a feature matrix and class indices.
func (c *Classifier) split(d *dataset.Dataset, label string) ([][]float64, []float64, error) {
	labelIdx, err := d.ColumnIndex(label)
	if err != nil {
		return nil, nil, err
	}

	features := make([][]float64, d.Len())
	labels := make([]float64, d.Len())
	for i, row := range d.Rows {
		features[i] = append(slices.Clone(row[:labelIdx]), row[labelIdx+1:]...)
		class, ok := slices.BinarySearch(c.classes, row[labelIdx])
		if !ok {
			// Unseen label values fall back to the nearest known class so
			// held-out folds never fail the forward pass.
			if class >= len(c.classes) {
				class = len(c.classes) - 1
			}
		}
		labels[i] = float64(class)
	}
	return features, labels, nil
}
