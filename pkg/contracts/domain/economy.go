package domain

// Canonical column names of the master economic dataset
const (
	ColumnYear             = "year"
	ColumnPopulation       = "population"
	ColumnInflation        = "inflation_annual"
	ColumnGDP              = "gdp_current_usd"
	ColumnUnemployment     = "unemployment_rate"
	ColumnLendingRate      = "lending_interest_rate"
	ColumnGDPGrowth        = "gdp_growth_annual"
	ColumnInflationLag1    = "inflation_annual_lag1"
	ColumnUnemploymentLag1 = "unemployment_rate_lag1"
	ColumnGDPGrowthLag1    = "gdp_growth_annual_lag1"
)

// FeatureOrder is the fixed feature vector layout shared by the trainer
// and the prediction service. Index positions are part of the model
// artifact contract and must never be reordered.
var FeatureOrder = []string{
	ColumnLendingRate,
	ColumnInflationLag1,
	ColumnUnemploymentLag1,
	ColumnGDPGrowthLag1,
}

// Targets are the outcome variables, one trained pipeline each
var Targets = []string{
	ColumnInflation,
	ColumnGDPGrowth,
	ColumnUnemployment,
}

// LagFeatureSet holds the three most recent non-missing lag values,
// computed once at service startup and read-only thereafter.
type LagFeatureSet struct {
	InflationLag1    float64 `json:"inflation_annual_lag1"`
	UnemploymentLag1 float64 `json:"unemployment_rate_lag1"`
	GDPGrowthLag1    float64 `json:"gdp_growth_annual_lag1"`
	// Source records whether the values came from the dataset or from
	// the fallback defaults.
	Source string `json:"source"`
}

// Vector builds the trailing three elements of the feature vector
func (l LagFeatureSet) Vector(lendingRate float64) []float64 {
	return []float64{lendingRate, l.InflationLag1, l.UnemploymentLag1, l.GDPGrowthLag1}
}

// DefaultLagFeatures are the domain-plausible fallbacks used when the
// master dataset cannot be read at startup.
var DefaultLagFeatures = LagFeatureSet{
	InflationLag1:    33.2,
	UnemploymentLag1: 7.0,
	GDPGrowthLag1:    2.5,
	Source:           "defaults",
}

// Forecast is a single simulation outcome with clamped predictions
type Forecast struct {
	Inflation        float64 `json:"inflation"`
	GDPGrowth        float64 `json:"gdp_growth"`
	UnemploymentRate float64 `json:"unemployment_rate"`
}

// ClampRange is an inclusive plausible range for one predicted outcome
type ClampRange struct {
	Min float64
	Max float64
}

// Clamp constrains v to the range
func (c ClampRange) Clamp(v float64) float64 {
	if v < c.Min {
		return c.Min
	}
	if v > c.Max {
		return c.Max
	}
	return v
}

// Domain-sanity clamp ranges applied to raw model outputs. These guard
// against extrapolation artifacts, not errors.
var (
	InflationRange    = ClampRange{Min: 15, Max: 40}
	GDPGrowthRange    = ClampRange{Min: -5, Max: 5}
	UnemploymentRange = ClampRange{Min: 8, Max: 40}
)
