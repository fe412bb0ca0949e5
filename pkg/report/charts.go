// Package report renders sweep results and group distributions as
// self-contained HTML charts.
package report

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/giordanoDaloisio/demv/pkg/crossval"
	"github.com/giordanoDaloisio/demv/pkg/dataset"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// MetricCurves plots the mean of every evaluation metric against the
// debiaser's stop value.
func MetricCurves(points []crossval.SweepPoint, title string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Stop value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Value"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	x := make([]string, len(points))
	for i, p := range points {
		x[i] = strconv.Itoa(p.Stop)
	}
	line.SetXAxis(x)

	series := []struct {
		name string
		key  string
	}{
		{"Statistical Parity", "stat_par"},
		{"Zero One Loss", "zero_one_loss"},
		{"Disparate Impact", "disp_imp"},
		{"Accuracy", "acc"},
	}
	for _, s := range series {
		data := make([]opts.LineData, len(points))
		for i, p := range points {
			data[i] = opts.LineData{Value: p.Metrics.Means()[s.key]}
		}
		line.AddSeries(s.name, data)
	}
	return line
}

// GroupPercentages plots, for each sensitive group, the percentage of rows
// carrying the given label value.
func GroupPercentages(data *dataset.Dataset, protectedAttrs []string, label string, labelValue float64) (*charts.Bar, error) {
	values := make([][]float64, len(protectedAttrs))
	for i, attr := range protectedAttrs {
		distinct, err := data.Distinct(attr)
		if err != nil {
			return nil, err
		}
		values[i] = distinct
	}

	var names []string
	var bars []opts.BarData
	for combo := 0; combo < 1<<len(protectedAttrs); combo++ {
		cond := dataset.Condition{}
		for i, attr := range protectedAttrs {
			cond = cond.And(attr, values[i][(combo>>uint(i))%len(values[i])])
		}

		groupTotal, err := data.CountWhere(cond)
		if err != nil {
			return nil, err
		}
		withLabel, err := data.CountWhere(cond.And(label, labelValue))
		if err != nil {
			return nil, err
		}

		percentage := 0.0
		if groupTotal > 0 {
			percentage = float64(withLabel) / float64(groupTotal) * 100
		}
		names = append(names, "("+cond.String()+")")
		bars = append(bars, opts.BarData{Value: percentage})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Percentage distribution of label for each sensitive group"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Percentage"}),
	)
	bar.SetXAxis(names)
	bar.AddSeries(fmt.Sprintf("%s=%g", label, labelValue), bars)
	return bar, nil
}

// RenderPage writes the charts as one HTML page.
func RenderPage(w io.Writer, charters ...components.Charter) error {
	page := components.NewPage()
	page.AddCharts(charters...)
	return page.Render(w)
}

// SavePage renders the charts to an HTML file on disk.
func SavePage(path string, charters ...components.Charter) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return RenderPage(f, charters...)
}
