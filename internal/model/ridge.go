package model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Ridge is an L2-regularized linear regression solved in closed form on
// standardized features. The intercept is not penalized: it falls out of
// centering the target before solving.
type Ridge struct {
	Alpha     float64   `json:"alpha"`
	Weights   []float64 `json:"weights"`
	Intercept float64   `json:"intercept"`
}

// Fit solves (ZᵀZ + αI) w = Zᵀ(y − ȳ) for the weight vector, with Z the
// standardized design matrix. The intercept is the training-target mean.
func (r *Ridge) Fit(z [][]float64, y []float64) error {
	n := len(z)
	if n == 0 || n != len(y) {
		return fmt.Errorf("design matrix and target length mismatch: %d rows, %d targets", n, len(y))
	}
	p := len(z[0])

	yMean := 0.0
	for _, v := range y {
		yMean += v
	}
	yMean /= float64(n)

	zm := mat.NewDense(n, p, nil)
	yc := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		if len(z[i]) != p {
			return fmt.Errorf("ragged design matrix at row %d", i)
		}
		zm.SetRow(i, z[i])
		yc.SetVec(i, y[i]-yMean)
	}

	var gram mat.Dense
	gram.Mul(zm.T(), zm)
	for j := 0; j < p; j++ {
		gram.Set(j, j, gram.At(j, j)+r.Alpha)
	}

	var rhs mat.VecDense
	rhs.MulVec(zm.T(), yc)

	var w mat.VecDense
	if err := w.SolveVec(&gram, &rhs); err != nil {
		return fmt.Errorf("ridge system is singular: %w", err)
	}

	r.Weights = make([]float64, p)
	for j := 0; j < p; j++ {
		r.Weights[j] = w.AtVec(j)
	}
	r.Intercept = yMean
	return nil
}

// Predict evaluates the model on one standardized feature vector
func (r *Ridge) Predict(z []float64) (float64, error) {
	if len(z) != len(r.Weights) {
		return 0, fmt.Errorf("feature count mismatch: got %d, model has %d weights", len(z), len(r.Weights))
	}
	out := r.Intercept
	for j, v := range z {
		out += r.Weights[j] * v
	}
	return out, nil
}
