package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/giordanoDaloisio/demv/pkg/crossval"
	"github.com/giordanoDaloisio/demv/pkg/dataset"
	"github.com/giordanoDaloisio/demv/pkg/datasets"
	"github.com/giordanoDaloisio/demv/pkg/db"
	"github.com/giordanoDaloisio/demv/pkg/demv"
	"github.com/giordanoDaloisio/demv/pkg/model"
	"github.com/giordanoDaloisio/demv/pkg/report"
	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"
	"github.com/syndtr/goleveldb/leveldb"
)

func loadEnv(filenames ...string) {
	for _, filename := range filenames {
		if s, err := os.Stat(filename); err == nil && !s.IsDir() {
			godotenv.Load(filename)
		}
	}
}

func envString(name, def string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return def
}

func envInt(name string, def int) int {
	if v, ok := os.LookupEnv(name); ok {
		if i, err := strconv.ParseInt(v, 10, 64); err != nil {
			log.Fatalf("error parsing env.%s: %v", name, err)
		} else {
			return int(i)
		}
	}
	return def
}

func envFloat64(name string, def float64) float64 {
	if v, ok := os.LookupEnv(name); ok {
		if f, err := strconv.ParseFloat(v, 64); err != nil {
			log.Fatalf("error parsing env.%s: %v", name, err)
		} else {
			return f
		}
	}
	return def
}

func envBool(name string, def bool) bool {
	if v, ok := os.LookupEnv(name); ok {
		if b, err := strconv.ParseBool(v); err != nil {
			log.Fatalf("error parsing env.%s: %v", name, err)
		} else {
			return b
		}
	}
	return def
}

// parseGroup parses "attr=value,attr=value" into the unprivileged group
// condition.
func parseGroup(s string) (dataset.Condition, error) {
	cond := dataset.Condition{}
	for _, pair := range strings.Split(s, ",") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("expected attr=value, got %q", pair)
		}
		value, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("group value for %q: %v", k, err)
		}
		cond = cond.And(strings.TrimSpace(k), value)
	}
	return cond, nil
}

func main() {
	if _, ok := os.LookupEnv("ENV"); !ok {
		os.Setenv("ENV", "development")
	}
	loadEnv(".env."+os.Getenv("ENV")+".local", ".env."+os.Getenv("ENV"), ".env.local", ".env")

	source := os.Getenv("DEMV_DATA")
	if source == "" {
		log.Fatalf("env.DEMV_DATA is required: a csv path or url")
	}
	label := os.Getenv("DEMV_LABEL")
	if label == "" {
		log.Fatalf("env.DEMV_LABEL is required")
	}
	if os.Getenv("DEMV_PROTECTED") == "" {
		log.Fatalf("env.DEMV_PROTECTED is required: a comma separated list of columns")
	}
	protected := strings.Split(os.Getenv("DEMV_PROTECTED"), ",")
	for i := range protected {
		protected[i] = strings.TrimSpace(protected[i])
	}

	positive := envFloat64("DEMV_POSITIVE_LABEL", 1)
	roundLevel := envInt("DEMV_ROUND_LEVEL", 1)
	debug := envBool("DEMV_DEBUG", false)
	stop := envInt("DEMV_STOP", -1)
	seed := envInt("DEMV_SEED", demv.DefaultSeed)
	splits := envInt("DEMV_SPLITS", 10)
	repeats := envInt("DEMV_REPEATS", 30)
	step := envInt("DEMV_SWEEP_STEP", 1)
	if step < 1 {
		log.Fatalf("env.DEMV_SWEEP_STEP must be at least 1, got %d", step)
	}
	epochs := envInt("DEMV_EPOCHS", 100)
	learnRate := envFloat64("DEMV_LEARN_RATE", 0.01)
	l2Penalty := envFloat64("DEMV_L2_PENALTY", 0.01)
	outputDir := envString("DEMV_OUTPUT_DIR", ".")

	// The unprivileged group defaults to every protected attribute at 0.
	group := dataset.Condition{}
	for _, attr := range protected {
		group = group.And(attr, 0)
	}
	if g, ok := os.LookupEnv("DEMV_UNPRIVILEGED"); ok {
		parsed, err := parseGroup(g)
		if err != nil {
			log.Fatalf("error parsing env.DEMV_UNPRIVILEGED: %v", err)
		}
		group = parsed
	}

	cachePath := envString("DEMV_CACHE", filepath.Join(os.TempDir(), "demv-cache.db"))
	cache, err := leveldb.OpenFile(cachePath, nil)
	if err != nil {
		log.Fatalf("failed to open cache %s: %v", cachePath, err)
	}
	defer cache.Close()

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("DEMV Config")
	t.AppendRows([]table.Row{
		{"DEMV_DATA", source},
		{"DEMV_LABEL", label},
		{"DEMV_PROTECTED", strings.Join(protected, ",")},
		{"DEMV_UNPRIVILEGED", group.String()},
		{"DEMV_POSITIVE_LABEL", fmt.Sprintf("%g", positive)},
		{"DEMV_ROUND_LEVEL", fmt.Sprintf("%d", roundLevel)},
		{"DEMV_STOP", fmt.Sprintf("%d", stop)},
		{"DEMV_SEED", fmt.Sprintf("%d", seed)},
		{"DEMV_SPLITS", fmt.Sprintf("%d", splits)},
		{"DEMV_REPEATS", fmt.Sprintf("%d", repeats)},
		{"DEMV_SWEEP_STEP", fmt.Sprintf("%d", step)},
		{"DEMV_EPOCHS", fmt.Sprintf("%d", epochs)},
		{"DEMV_LEARN_RATE", fmt.Sprintf("%0.04f", learnRate)},
		{"DEMV_L2_PENALTY", fmt.Sprintf("%0.04f", l2Penalty)},
	})
	t.Render()

	pw := progress.NewWriter()
	pw.SetMessageLength(40)
	pw.SetSortBy(progress.SortByPercentDsc)
	pw.SetStyle(progress.StyleDefault)
	pw.SetTrackerLength(15)
	pw.SetTrackerPosition(progress.PositionRight)
	pw.SetUpdateFrequency(time.Millisecond * 100)
	go pw.Render()

	data, err := datasets.Load(cache, pw, source)
	if err != nil {
		log.Fatalf("failed to load dataset: %v", err)
	}
	log.Printf("loaded %d rows, %d columns", data.Len(), len(data.Columns))

	// The first run establishes the iteration budget for the sweep and
	// produces the balanced dataset. It is unbounded unless DEMV_STOP caps
	// it explicitly.
	debiaser := demv.New(roundLevel, debug, stop)
	debiaser.Seed = int64(seed)
	balanced, err := debiaser.FitTransform(data, protected, label)
	if err != nil {
		log.Fatalf("debiasing failed: %v", err)
	}
	maxIters := debiaser.Iters()
	log.Printf("balanced in %d iterations: %d rows in, %d rows out", maxIters, data.Len(), balanced.Len())

	balancedPath := filepath.Join(outputDir, "balanced.csv")
	if err := balanced.SaveCSV(balancedPath); err != nil {
		log.Fatalf("failed to write %s: %v", balancedPath, err)
	}

	clf := model.NewClassifier()
	clf.Epochs = epochs
	clf.LearnRate = learnRate
	clf.L2Penalty = l2Penalty

	opts := crossval.Options{
		Splits:    splits,
		Repeats:   repeats,
		Group:     group,
		Sensitive: protected,
		Positive:  positive,
		Seed:      int64(seed),
	}

	points, err := crossval.EvalDEMV(pw, data, label, clf, roundLevel, step, maxIters, opts)
	if err != nil {
		log.Fatalf("sweep failed: %v", err)
	}

	pw.Stop()
	for pw.IsRenderInProgress() {
		time.Sleep(time.Millisecond * 100)
	}

	csvPath := filepath.Join(outputDir, "sweep.csv")
	f, err := os.Create(csvPath)
	if err != nil {
		log.Fatalf("failed to create %s: %v", csvPath, err)
	}
	writer := csv.NewWriter(f)
	if err := crossval.WriteCSVHeader(writer); err != nil {
		log.Fatalf("failed to write csv header: %v", err)
	}
	for _, point := range points {
		if err := crossval.WriteCSVRow(writer, point); err != nil {
			log.Fatalf("failed to write csv row: %v", err)
		}
	}
	f.Close()

	curves := report.MetricCurves(points, "Metrics by stop value")
	groups, err := report.GroupPercentages(data, protected, label, positive)
	if err != nil {
		log.Fatalf("failed to chart group percentages: %v", err)
	}
	chartsPath := filepath.Join(outputDir, "sweep.html")
	if err := report.SavePage(chartsPath, curves, groups); err != nil {
		log.Fatalf("failed to write %s: %v", chartsPath, err)
	}

	points[len(points)-1].Metrics.Write(os.Stdout)

	if _, ok := os.LookupEnv("MONGO_URL"); ok {
		mongo, err := db.Connect()
		if err != nil {
			log.Fatalf("failed to connect to MongoDB: %v", err)
		}
		run := db.NewRun(source, label, protected, roundLevel, maxIters, points)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := db.SaveRun(ctx, mongo, run); err != nil {
			log.Fatalf("failed to save run: %v", err)
		}
		log.Printf("run saved to MongoDB")
	}

	log.Printf("wrote %s, %s and %s", balancedPath, csvPath, chartsPath)
}
