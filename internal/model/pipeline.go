package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Pipeline bundles a fitted scaler and ridge model for one target
// indicator, plus the metadata needed to validate inputs at load time.
type Pipeline struct {
	Target    string         `json:"target"`
	Features  []string       `json:"features"`
	Scaler    StandardScaler `json:"scaler"`
	Model     Ridge          `json:"model"`
	TestMSE   float64        `json:"test_mse"`
	TrainRows int            `json:"train_rows"`
	TrainedAt time.Time      `json:"trained_at"`
}

// Predict standardizes a raw feature vector, in the pipeline's feature
// order, and evaluates the model.
func (p *Pipeline) Predict(features []float64) (float64, error) {
	z, err := p.Scaler.TransformRow(features)
	if err != nil {
		return 0, fmt.Errorf("target %s: %w", p.Target, err)
	}
	out, err := p.Model.Predict(z)
	if err != nil {
		return 0, fmt.Errorf("target %s: %w", p.Target, err)
	}
	return out, nil
}

// Save writes the pipeline as indented JSON, creating the directory first
func (p *Pipeline) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create model directory: %w", err)
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal pipeline for %s: %w", p.Target, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// LoadPipeline reads a persisted pipeline and checks it is usable
func LoadPipeline(path string) (*Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var p Pipeline
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(p.Model.Weights) == 0 || len(p.Scaler.Mean) != len(p.Model.Weights) {
		return nil, fmt.Errorf("pipeline %s is malformed: %d weights, %d scaler means",
			path, len(p.Model.Weights), len(p.Scaler.Mean))
	}
	if len(p.Features) != len(p.Model.Weights) {
		return nil, fmt.Errorf("pipeline %s is malformed: %d features, %d weights",
			path, len(p.Features), len(p.Model.Weights))
	}
	return &p, nil
}
