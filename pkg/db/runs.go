package db

import (
	"context"
	"time"

	"github.com/giordanoDaloisio/demv/pkg/crossval"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const runsCollection = "runs"

// Run is one stored sweep: the configuration it ran with and the mean
// metric values at every stop point.
type Run struct {
	CreatedAt  time.Time  `bson:"created_at"`
	Dataset    string     `bson:"dataset"`
	Label      string     `bson:"label"`
	Protected  []string   `bson:"protected"`
	RoundLevel int        `bson:"round_level"`
	MaxIters   int        `bson:"max_iters"`
	Points     []RunPoint `bson:"points"`
}

// RunPoint summarizes one sweep point by its per-metric means.
type RunPoint struct {
	Stop  int                `bson:"stop"`
	Means map[string]float64 `bson:"means"`
}

// NewRun converts sweep results into a storable run document.
func NewRun(source, label string, protected []string, roundLevel, maxIters int, points []crossval.SweepPoint) Run {
	run := Run{
		CreatedAt:  time.Now(),
		Dataset:    source,
		Label:      label,
		Protected:  protected,
		RoundLevel: roundLevel,
		MaxIters:   maxIters,
	}
	for _, p := range points {
		run.Points = append(run.Points, RunPoint{Stop: p.Stop, Means: p.Metrics.Means()})
	}
	return run
}

// SaveRun inserts the run, creating the created_at index on first use.
func SaveRun(ctx context.Context, db *mongo.Database, run Run) error {
	name := "created_at_1"
	index := mongo.IndexModel{
		Keys:    bson.D{{Key: "created_at", Value: 1}},
		Options: options.Index().SetName(name),
	}
	if err := ensureIndex(ctx, db, runsCollection, index); err != nil {
		return err
	}

	_, err := db.Collection(runsCollection).InsertOne(ctx, run)
	return err
}
