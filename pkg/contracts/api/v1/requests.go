// Package api contains API contract definitions for the policy simulator.
// Version v1 represents the current stable API version.
package api

// PredictRequest is the body of POST /predict. LendingRate is a pointer so
// an absent field can be told apart from a zero rate.
type PredictRequest struct {
	LendingRate *float64 `json:"lending_rate" validate:"required"`
}

// PredictResponse mirrors domain.Forecast on the wire
type PredictResponse struct {
	Inflation        float64 `json:"inflation"`
	GDPGrowth        float64 `json:"gdp_growth"`
	UnemploymentRate float64 `json:"unemployment_rate"`
}

// ErrorResponse is the simulator's flat error body
type ErrorResponse struct {
	Error string `json:"error"`
}
