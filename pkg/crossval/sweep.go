package crossval

import (
	"github.com/giordanoDaloisio/demv/pkg/dataset"
	"github.com/giordanoDaloisio/demv/pkg/demv"
	"github.com/giordanoDaloisio/demv/pkg/metrics"
	"github.com/giordanoDaloisio/demv/pkg/model"
	"github.com/jedib0t/go-pretty/v6/progress"
)

// SweepPoint is the cross-validated evaluation at one iteration cap.
type SweepPoint struct {
	Stop    int
	Metrics *metrics.RunMetrics
}

// EvalDEMV sweeps the debiaser's iteration cap from zero to maxIters in
// increments of step, running a full cross validation at each point. The
// resulting curve shows how far partial balancing moves each metric; the
// caller usually obtains maxIters from an unbounded FitTransform via
// DEMV.Iters.
func EvalDEMV(pw progress.Writer, data *dataset.Dataset, label string, clf *model.Classifier, roundLevel int, step, maxIters int, opts Options) ([]SweepPoint, error) {
	var points []SweepPoint
	for stop := 0; stop <= maxIters; stop += step {
		debiaser := demv.New(roundLevel, false, stop)
		run, err := CrossVal(pw, data, label, clf, debiaser, opts)
		if err != nil {
			return nil, err
		}
		points = append(points, SweepPoint{Stop: stop, Metrics: run})
	}
	return points, nil
}
