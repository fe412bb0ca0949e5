package metrics_test

import (
	"bytes"
	"testing"

	"github.com/giordanoDaloisio/demv/pkg/dataset"
	"github.com/giordanoDaloisio/demv/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// predictions builds an 8-row dataset where the unprivileged group (a=0)
// has a 1/4 positive rate and the privileged group a 3/4 rate.
func predictions(t *testing.T) *dataset.Dataset {
	t.Helper()
	d := dataset.New([]string{"a", "y"})
	d.Append([]float64{0, 1})
	d.Append([]float64{0, 0})
	d.Append([]float64{0, 0})
	d.Append([]float64{0, 0})
	d.Append([]float64{1, 1})
	d.Append([]float64{1, 1})
	d.Append([]float64{1, 1})
	d.Append([]float64{1, 0})
	return d
}

func TestStatisticalParity(t *testing.T) {
	group := dataset.Condition{}.And("a", 0)
	sp, err := metrics.StatisticalParity(predictions(t), group, "y", 1)
	require.NoError(t, err)
	assert.InDelta(t, 0.25-0.75, sp, 1e-12)
}

func TestDisparateImpact(t *testing.T) {
	group := dataset.Condition{}.And("a", 0)
	di, err := metrics.DisparateImpact(predictions(t), group, "y", 1)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/3.0, di, 1e-12)

	// The ratio is folded so parity is always 1, whichever group leads.
	flipped := dataset.Condition{}.And("a", 1)
	di, err = metrics.DisparateImpact(predictions(t), flipped, "y", 1)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/3.0, di, 1e-12)
}

func TestDisparateImpactZeroUnprivileged(t *testing.T) {
	d := dataset.New([]string{"a", "y"})
	d.Append([]float64{0, 0})
	d.Append([]float64{0, 0})
	d.Append([]float64{1, 1})
	d.Append([]float64{1, 0})

	di, err := metrics.DisparateImpact(d, dataset.Condition{}.And("a", 0), "y", 1)
	require.NoError(t, err)
	assert.Zero(t, di)
}

func TestGroupMustSplitDataset(t *testing.T) {
	d := dataset.New([]string{"a", "y"})
	d.Append([]float64{0, 1})
	d.Append([]float64{0, 0})

	_, err := metrics.StatisticalParity(d, dataset.Condition{}.And("a", 0), "y", 1)
	assert.ErrorIs(t, err, dataset.ErrEmptyDataset)

	_, err = metrics.StatisticalParity(d, dataset.Condition{}.And("a", 1), "y", 1)
	assert.ErrorIs(t, err, dataset.ErrEmptyDataset)
}

func TestZeroOneLossDiff(t *testing.T) {
	yTrue := []float64{1, 0, 1, 0, 1, 0}
	yPred := []float64{1, 0, 0, 0, 0, 1}
	sensitive := [][]float64{{0}, {0}, {0}, {1}, {1}, {1}}

	// Group 0 misclassifies 1 of 3 rows, group 1 misclassifies 2 of 3.
	diff, err := metrics.ZeroOneLossDiff(yTrue, yPred, sensitive)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/3.0, diff, 1e-12)
}

func TestZeroOneLossDiffLengthMismatch(t *testing.T) {
	_, err := metrics.ZeroOneLossDiff([]float64{1}, []float64{1, 0}, [][]float64{{0}})
	assert.ErrorIs(t, err, dataset.ErrSchemaMismatch)
}

func TestAccuracy(t *testing.T) {
	assert.Equal(t, 0.75, metrics.Accuracy([]float64{1, 0, 1, 1}, []float64{1, 0, 0, 1}))
	assert.Zero(t, metrics.Accuracy(nil, nil))
}

func TestWeightedF1(t *testing.T) {
	// Perfect predictions score 1 regardless of class balance.
	assert.Equal(t, 1.0, metrics.WeightedF1([]float64{0, 1, 1}, []float64{0, 1, 1}))

	// Class 0: precision 1/2, recall 1/2, f1 1/2, support 2.
	// Class 1: precision 1/2, recall 1/2, f1 1/2, support 2.
	got := metrics.WeightedF1([]float64{0, 0, 1, 1}, []float64{0, 1, 0, 1})
	assert.InDelta(t, 0.5, got, 1e-12)
}

func TestRunMetricsMergeAndMeans(t *testing.T) {
	m := &metrics.RunMetrics{
		StatParity:  []float64{-0.2},
		DispImpact:  []float64{0.5},
		ZeroOneLoss: []float64{0.1},
		Accuracy:    []float64{0.8},
		F1:          []float64{0.7},
	}
	m.Merge(&metrics.RunMetrics{
		StatParity:  []float64{0},
		DispImpact:  []float64{1},
		ZeroOneLoss: []float64{0.3},
		Accuracy:    []float64{0.6},
		F1:          []float64{0.9},
	})

	means := m.Means()
	assert.InDelta(t, -0.1, means["stat_par"], 1e-12)
	assert.InDelta(t, 0.75, means["disp_imp"], 1e-12)
	assert.InDelta(t, 0.2, means["zero_one_loss"], 1e-12)
	assert.InDelta(t, 0.7, means["acc"], 1e-12)
	assert.InDelta(t, 0.8, means["f1"], 1e-12)
}

func TestRunMetricsWrite(t *testing.T) {
	m := &metrics.RunMetrics{
		StatParity:  []float64{-0.2, 0},
		DispImpact:  []float64{0.5, 1},
		ZeroOneLoss: []float64{0.1, 0.3},
		Accuracy:    []float64{0.8, 0.6},
		F1:          []float64{0.7, 0.9},
	}

	var buf bytes.Buffer
	m.Write(&buf)
	out := buf.String()
	assert.Contains(t, out, "Evaluation Metrics")
	assert.Contains(t, out, "Disparate Impact")
	assert.Contains(t, out, "0.750")
}
