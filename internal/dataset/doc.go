// Package dataset turns raw extracted tables into the master economic
// dataset. It covers three stages: normalization (header reconstruction,
// forward-fill, numeric coercion of a single raw table), merging (aligning
// the per-source tables on a shared year key and reconciling overlapping
// columns) and derivation (year-over-year growth and one-year lag columns).
//
// Tables move between stages as CSV records or gota frames; missing values
// are always explicit, never zero.
package dataset
