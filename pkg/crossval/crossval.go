package crossval

import (
	"fmt"
	"math/rand"

	"github.com/giordanoDaloisio/demv/pkg/dataset"
	"github.com/giordanoDaloisio/demv/pkg/demv"
	"github.com/giordanoDaloisio/demv/pkg/metrics"
	"github.com/giordanoDaloisio/demv/pkg/model"
	"github.com/jedib0t/go-pretty/v6/progress"
)

// Options configures one cross-validation run.
type Options struct {
	// Splits is the number of k-fold train/test splits.
	Splits int
	// Repeats is how many times the debiaser is re-run per fold; the
	// resampling is stochastic, so metrics are averaged over repeats.
	Repeats int
	// Group identifies the unprivileged group for the fairness metrics.
	Group dataset.Condition
	// Sensitive lists the sensitive attribute column names.
	Sensitive []string
	// Positive is the favorable label value.
	Positive float64
	// Seed drives the fold shuffling.
	Seed int64
}

// DefaultOptions mirrors the evaluation setup of the original experiments:
// ten splits, thirty debiaser repeats per fold.
func DefaultOptions() Options {
	return Options{
		Splits:  10,
		Repeats: 30,
		Seed:    demv.DefaultSeed,
	}
}

// CrossVal trains and evaluates the classifier across k folds, optionally
// debiasing each fold's training split first, and returns one metric value
// per (fold, repeat) run.
func CrossVal(pw progress.Writer, data *dataset.Dataset, label string, clf *model.Classifier, debiaser *demv.DEMV, opts Options) (*metrics.RunMetrics, error) {
	rng := rand.New(rand.NewSource(opts.Seed))
	folds, err := KFold(data.Len(), opts.Splits, rng)
	if err != nil {
		return nil, err
	}

	var tracker *progress.Tracker
	if pw != nil {
		tracker = &progress.Tracker{
			Message: "Cross validation",
			Total:   int64(len(folds)),
			Units:   progress.UnitsDefault,
		}
		pw.AppendTracker(tracker)
		tracker.Start()
	}

	out := &metrics.RunMetrics{}
	for _, fold := range folds {
		train := data.Subset(fold.Train)
		test := data.Subset(fold.Test)

		if debiaser == nil {
			run, err := trainAndScore(pw, train, test, label, clf, opts)
			if err != nil {
				return nil, err
			}
			out.Merge(run)
		} else {
			for repeat := 0; repeat < opts.Repeats; repeat++ {
				// A fresh seed per repeat keeps the stochastic resampling
				// independent across runs while staying reproducible.
				debiaser.Seed = opts.Seed + int64(repeat)
				debiased, err := debiaser.FitTransform(train, opts.Sensitive, label)
				if err != nil {
					return nil, err
				}
				run, err := trainAndScore(pw, debiased, test, label, clf, opts)
				if err != nil {
					return nil, err
				}
				out.Merge(run)
			}
		}

		if tracker != nil {
			tracker.Increment(1)
		}
	}
	if tracker != nil {
		tracker.MarkAsDone()
	}
	return out, nil
}

// trainAndScore fits a fresh copy of the classifier on the training split
// and scores its predictions on the held-out split.
func trainAndScore(pw progress.Writer, train, test *dataset.Dataset, label string, clf *model.Classifier, opts Options) (*metrics.RunMetrics, error) {
	m := &model.Classifier{
		Epochs:    clf.Epochs,
		LearnRate: clf.LearnRate,
		L2Penalty: clf.L2Penalty,
	}
	if err := m.Fit(nil, train, label); err != nil {
		return nil, err
	}
	pred, err := m.PredictDataset(test, label)
	if err != nil {
		return nil, err
	}

	yTrue, err := test.Column(label)
	if err != nil {
		return nil, err
	}

	predicted, err := test.WithColumn(label, pred)
	if err != nil {
		return nil, err
	}

	statPar, err := metrics.StatisticalParity(predicted, opts.Group, label, opts.Positive)
	if err != nil {
		return nil, fmt.Errorf("statistical parity: %v", err)
	}
	dispImp, err := metrics.DisparateImpact(predicted, opts.Group, label, opts.Positive)
	if err != nil {
		return nil, fmt.Errorf("disparate impact: %v", err)
	}

	sensitive := make([][]float64, test.Len())
	for i := range sensitive {
		row := make([]float64, len(opts.Sensitive))
		for j, attr := range opts.Sensitive {
			idx, err := test.ColumnIndex(attr)
			if err != nil {
				return nil, err
			}
			row[j] = test.Rows[i][idx]
		}
		sensitive[i] = row
	}
	zeroOne, err := metrics.ZeroOneLossDiff(yTrue, pred, sensitive)
	if err != nil {
		return nil, fmt.Errorf("zero one loss: %v", err)
	}

	return &metrics.RunMetrics{
		StatParity:  []float64{statPar},
		DispImpact:  []float64{dispImp},
		ZeroOneLoss: []float64{zeroOne},
		Accuracy:    []float64{metrics.Accuracy(yTrue, pred)},
		F1:          []float64{metrics.WeightedF1(yTrue, pred)},
	}, nil
}
