package metrics

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"gonum.org/v1/gonum/stat"
)

// RunMetrics accumulates the evaluation metrics of repeated train/test
// runs, one value per run.
type RunMetrics struct {
	StatParity  []float64
	DispImpact  []float64
	ZeroOneLoss []float64
	Accuracy    []float64
	F1          []float64
}

// Merge appends the other run's values onto the receiver.
func (m *RunMetrics) Merge(o *RunMetrics) {
	m.StatParity = append(m.StatParity, o.StatParity...)
	m.DispImpact = append(m.DispImpact, o.DispImpact...)
	m.ZeroOneLoss = append(m.ZeroOneLoss, o.ZeroOneLoss...)
	m.Accuracy = append(m.Accuracy, o.Accuracy...)
	m.F1 = append(m.F1, o.F1...)
}

// Means returns the mean of every metric keyed by its short name.
func (m *RunMetrics) Means() map[string]float64 {
	return map[string]float64{
		"stat_par":      stat.Mean(m.StatParity, nil),
		"disp_imp":      stat.Mean(m.DispImpact, nil),
		"zero_one_loss": stat.Mean(m.ZeroOneLoss, nil),
		"acc":           stat.Mean(m.Accuracy, nil),
		"f1":            stat.Mean(m.F1, nil),
	}
}

// Write renders a summary table of mean and standard deviation per metric.
func (m *RunMetrics) Write(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Evaluation Metrics")
	t.AppendHeader(table.Row{"METRIC", "MEAN", "STDDEV"})
	rows := []struct {
		name   string
		values []float64
	}{
		{"Statistical Parity", m.StatParity},
		{"Disparate Impact", m.DispImpact},
		{"Zero One Loss", m.ZeroOneLoss},
		{"Accuracy", m.Accuracy},
		{"F1 Score", m.F1},
	}
	for _, row := range rows {
		t.AppendRow(table.Row{
			row.name,
			fmt.Sprintf("%0.3f", stat.Mean(row.values, nil)),
			fmt.Sprintf("%0.3f", stat.StdDev(row.values, nil)),
		})
	}
	t.Render()
}
