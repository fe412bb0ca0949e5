package crossval_test

import (
	"bytes"
	"encoding/csv"
	"math/rand"
	"testing"

	"github.com/giordanoDaloisio/demv/pkg/crossval"
	"github.com/giordanoDaloisio/demv/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKFoldPartitionsAllSamples(t *testing.T) {
	folds, err := crossval.KFold(23, 5, rand.New(rand.NewSource(2)))
	require.NoError(t, err)
	require.Len(t, folds, 5)

	seen := map[int]int{}
	for _, fold := range folds {
		assert.Equal(t, 23, len(fold.Train)+len(fold.Test))
		for _, idx := range fold.Test {
			seen[idx]++
		}

		// No index appears on both sides of a split.
		train := map[int]bool{}
		for _, idx := range fold.Train {
			train[idx] = true
		}
		for _, idx := range fold.Test {
			assert.False(t, train[idx])
		}
	}

	// Every sample is held out exactly once across the folds.
	assert.Len(t, seen, 23)
	for _, n := range seen {
		assert.Equal(t, 1, n)
	}
}

func TestKFoldIsDeterministic(t *testing.T) {
	first, err := crossval.KFold(10, 3, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	second, err := crossval.KFold(10, 3, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestKFoldValidation(t *testing.T) {
	_, err := crossval.KFold(10, 1, rand.New(rand.NewSource(2)))
	assert.Error(t, err)

	_, err = crossval.KFold(3, 5, rand.New(rand.NewSource(2)))
	assert.Error(t, err)
}

func TestDefaultOptions(t *testing.T) {
	opts := crossval.DefaultOptions()
	assert.Equal(t, 10, opts.Splits)
	assert.Equal(t, 30, opts.Repeats)
}

func TestCSVHeaderAndRowsAlign(t *testing.T) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	require.NoError(t, crossval.WriteCSVHeader(writer))
	point := crossval.SweepPoint{
		Stop: 4,
		Metrics: &metrics.RunMetrics{
			StatParity:  []float64{-0.2, -0.1},
			DispImpact:  []float64{0.5, 0.75},
			ZeroOneLoss: []float64{0.1, 0.3},
			Accuracy:    []float64{0.8, 0.6},
			F1:          []float64{0.7, 0.9},
		},
	}
	require.NoError(t, crossval.WriteCSVRow(writer, point))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, len(records[0]), len(records[1]))
	assert.Equal(t, "Stop", records[0][0])
	assert.Equal(t, "4", records[1][0])
	assert.Equal(t, "Disparate Impact (Mean)", records[0][5])
	assert.Equal(t, "0.625000", records[1][5])
}
