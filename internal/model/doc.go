// Package model implements the forecasting pipelines: standardization,
// closed-form ridge regression, deterministic train/test splitting and
// JSON persistence of fitted artifacts. One pipeline is trained per
// target indicator over a shared feature vector.
package model
