package model

import (
	"fmt"
	"math"
)

// StandardScaler standardizes features to zero mean and unit variance
// using statistics estimated from the training split only.
type StandardScaler struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

// Fit estimates per-feature mean and population standard deviation.
// Constant features get a unit scale so their standardized value is zero
// rather than infinite.
func (s *StandardScaler) Fit(x [][]float64) error {
	if len(x) == 0 {
		return fmt.Errorf("cannot fit scaler on empty matrix")
	}
	p := len(x[0])
	s.Mean = make([]float64, p)
	s.Std = make([]float64, p)

	for j := 0; j < p; j++ {
		sum := 0.0
		for _, row := range x {
			sum += row[j]
		}
		s.Mean[j] = sum / float64(len(x))
	}
	for j := 0; j < p; j++ {
		ss := 0.0
		for _, row := range x {
			d := row[j] - s.Mean[j]
			ss += d * d
		}
		std := math.Sqrt(ss / float64(len(x)))
		if std == 0 {
			std = 1
		}
		s.Std[j] = std
	}
	return nil
}

// Transform standardizes a matrix with the fitted statistics
func (s *StandardScaler) Transform(x [][]float64) ([][]float64, error) {
	out := make([][]float64, len(x))
	for i, row := range x {
		z, err := s.TransformRow(row)
		if err != nil {
			return nil, err
		}
		out[i] = z
	}
	return out, nil
}

// TransformRow standardizes a single feature vector
func (s *StandardScaler) TransformRow(row []float64) ([]float64, error) {
	if len(row) != len(s.Mean) {
		return nil, fmt.Errorf("feature count mismatch: got %d, scaler fitted on %d", len(row), len(s.Mean))
	}
	z := make([]float64, len(row))
	for j, v := range row {
		z[j] = (v - s.Mean[j]) / s.Std[j]
	}
	return z, nil
}
