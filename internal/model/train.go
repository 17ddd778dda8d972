package model

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/go-gota/gota/dataframe"

	"policysim/internal/dataset"
	"policysim/pkg/contracts/domain"
)

// minTrainingRows is the smallest usable row count after dropping
// incomplete rows. Below this a fitted model is noise and training fails
// loudly instead of persisting it.
const minTrainingRows = 8

// TrainOptions configures one training run
type TrainOptions struct {
	Alpha        float64
	TestFraction float64
	Seed         int64
}

// Trainer fits one pipeline per target indicator from the master dataset
type Trainer struct {
	opts   TrainOptions
	logger *slog.Logger
}

// NewTrainer creates a trainer
func NewTrainer(opts TrainOptions, logger *slog.Logger) *Trainer {
	return &Trainer{opts: opts, logger: logger}
}

// Train fits one pipeline per target. Rows missing any feature or the
// target are dropped per target, and the most recent year is held out
// entirely since its synthetic values are estimates, not observations.
func (t *Trainer) Train(df dataframe.DataFrame) ([]*Pipeline, error) {
	if df.Err != nil {
		return nil, df.Err
	}
	for _, name := range domain.FeatureOrder {
		if !dataset.HasColumn(df, name) {
			return nil, fmt.Errorf("dataset is missing feature column %q", name)
		}
	}

	years := df.Col(domain.ColumnYear).Float()
	reserved := 0
	for _, y := range years {
		if int(y) > reserved {
			reserved = int(y)
		}
	}

	features := make([][]float64, len(domain.FeatureOrder))
	for j, name := range domain.FeatureOrder {
		features[j] = df.Col(name).Float()
	}

	pipelines := make([]*Pipeline, 0, len(domain.Targets))
	for _, target := range domain.Targets {
		if !dataset.HasColumn(df, target) {
			return nil, fmt.Errorf("dataset is missing target column %q", target)
		}
		targets := df.Col(target).Float()

		var x [][]float64
		var y []float64
		for i := 0; i < df.Nrow(); i++ {
			if int(years[i]) == reserved {
				continue
			}
			row := make([]float64, len(features))
			complete := !math.IsNaN(targets[i])
			for j := range features {
				row[j] = features[j][i]
				if math.IsNaN(row[j]) {
					complete = false
				}
			}
			if !complete {
				continue
			}
			x = append(x, row)
			y = append(y, targets[i])
		}

		if len(x) < minTrainingRows {
			return nil, fmt.Errorf("target %s: only %d complete rows after dropping missing values, need %d",
				target, len(x), minTrainingRows)
		}

		p, err := t.fitTarget(target, x, y)
		if err != nil {
			return nil, err
		}
		pipelines = append(pipelines, p)

		t.logger.Info("trained pipeline",
			slog.String("target", target),
			slog.Int("rows", len(x)),
			slog.Int("reserved_year", reserved),
			slog.Float64("test_mse", p.TestMSE))
	}

	return pipelines, nil
}

func (t *Trainer) fitTarget(target string, x [][]float64, y []float64) (*Pipeline, error) {
	trainIdx, testIdx, err := TrainTestSplit(len(x), t.opts.TestFraction, t.opts.Seed)
	if err != nil {
		return nil, fmt.Errorf("target %s: %w", target, err)
	}

	xTrain, yTrain := gather(x, y, trainIdx)
	xTest, yTest := gather(x, y, testIdx)

	p := &Pipeline{
		Target:    target,
		Features:  append([]string(nil), domain.FeatureOrder...),
		Model:     Ridge{Alpha: t.opts.Alpha},
		TrainRows: len(trainIdx),
		TrainedAt: time.Now().UTC(),
	}

	if err := p.Scaler.Fit(xTrain); err != nil {
		return nil, fmt.Errorf("target %s: %w", target, err)
	}
	zTrain, err := p.Scaler.Transform(xTrain)
	if err != nil {
		return nil, fmt.Errorf("target %s: %w", target, err)
	}
	if err := p.Model.Fit(zTrain, yTrain); err != nil {
		return nil, fmt.Errorf("target %s: %w", target, err)
	}

	mse := 0.0
	for i, row := range xTest {
		pred, err := p.Predict(row)
		if err != nil {
			return nil, err
		}
		d := pred - yTest[i]
		mse += d * d
	}
	p.TestMSE = mse / float64(len(xTest))

	return p, nil
}

func gather(x [][]float64, y []float64, idx []int) ([][]float64, []float64) {
	xs := make([][]float64, len(idx))
	ys := make([]float64, len(idx))
	for i, k := range idx {
		xs[i] = x[k]
		ys[i] = y[k]
	}
	return xs, ys
}
