package report_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/giordanoDaloisio/demv/pkg/crossval"
	"github.com/giordanoDaloisio/demv/pkg/dataset"
	"github.com/giordanoDaloisio/demv/pkg/metrics"
	"github.com/giordanoDaloisio/demv/pkg/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sweepPoints() []crossval.SweepPoint {
	return []crossval.SweepPoint{
		{Stop: 0, Metrics: &metrics.RunMetrics{
			StatParity:  []float64{-0.3},
			DispImpact:  []float64{0.4},
			ZeroOneLoss: []float64{0.2},
			Accuracy:    []float64{0.9},
			F1:          []float64{0.85},
		}},
		{Stop: 5, Metrics: &metrics.RunMetrics{
			StatParity:  []float64{-0.1},
			DispImpact:  []float64{0.8},
			ZeroOneLoss: []float64{0.1},
			Accuracy:    []float64{0.85},
			F1:          []float64{0.8},
		}},
	}
}

func TestMetricCurves(t *testing.T) {
	line := report.MetricCurves(sweepPoints(), "Adult sweep")

	var buf bytes.Buffer
	require.NoError(t, report.RenderPage(&buf, line))
	html := buf.String()
	assert.Contains(t, html, "Adult sweep")
	assert.Contains(t, html, "Statistical Parity")
	assert.Contains(t, html, "Disparate Impact")
	assert.Contains(t, html, "Accuracy")
}

func TestGroupPercentages(t *testing.T) {
	d := dataset.New([]string{"a", "y"})
	d.Append([]float64{0, 1})
	d.Append([]float64{0, 0})
	d.Append([]float64{1, 1})
	d.Append([]float64{1, 1})

	bar, err := report.GroupPercentages(d, []string{"a"}, "y", 1)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, report.RenderPage(&buf, bar))
	html := buf.String()
	assert.Contains(t, html, "(a=0)")
	assert.Contains(t, html, "(a=1)")
	assert.Contains(t, html, "y=1")
}

func TestGroupPercentagesUnknownColumn(t *testing.T) {
	d := dataset.New([]string{"a", "y"})
	d.Append([]float64{0, 1})

	_, err := report.GroupPercentages(d, []string{"missing"}, "y", 1)
	assert.ErrorIs(t, err, dataset.ErrColumnNotFound)
}

func TestSavePage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweep.html")
	require.NoError(t, report.SavePage(path, report.MetricCurves(sweepPoints(), "sweep")))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "<html>")
}
