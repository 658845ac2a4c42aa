// Curbside - Real-Time Parking Discovery and Availability Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curbside

package recommend

import (
	"fmt"
	"math"
	"os"

	json "github.com/goccy/go-json"
)

// Model is a logistic scoring model loaded from a versioned artifact.
// It is immutable after load and safe for concurrent use.
type Model struct {
	version string
	weights []float64
	bias    float64
}

// artifact is the on-disk JSON layout produced by the offline training
// pipeline.
type artifact struct {
	Version      string    `json:"version"`
	FeatureCount int       `json:"feature_count"`
	Weights      []float64 `json:"weights"`
	Bias         float64   `json:"bias"`
}

// ErrModelUnavailable wraps any artifact load or shape failure. Callers
// treat it as a signal to run in fallback mode, never as fatal.
var ErrModelUnavailable = fmt.Errorf("scoring model unavailable")

// LoadModel reads and validates a scoring artifact. The artifact must
// declare exactly FeatureCount weights; anything else is a contract
// violation with the feature assembly code.
func LoadModel(path string) (*Model, error) {
	raw, err := os.ReadFile(path) //nolint:gosec // path comes from config, not user input
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrModelUnavailable, path, err)
	}

	var a artifact
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrModelUnavailable, path, err)
	}

	if a.Version == "" {
		return nil, fmt.Errorf("%w: artifact %s missing version", ErrModelUnavailable, path)
	}
	if a.FeatureCount != FeatureCount {
		return nil, fmt.Errorf("%w: artifact %s declares %d features, runtime expects %d",
			ErrModelUnavailable, path, a.FeatureCount, FeatureCount)
	}
	if len(a.Weights) != a.FeatureCount {
		return nil, fmt.Errorf("%w: artifact %s has %d weights for %d features",
			ErrModelUnavailable, path, len(a.Weights), a.FeatureCount)
	}
	for i, w := range a.Weights {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("%w: artifact %s weight %d is not finite", ErrModelUnavailable, path, i)
		}
	}

	return &Model{version: a.Version, weights: a.Weights, bias: a.Bias}, nil
}

// Version returns the artifact version string.
func (m *Model) Version() string {
	return m.version
}

// Score computes the logistic probability for a feature vector,
// returning a value in (0,1).
func (m *Model) Score(vec []float64) (float64, error) {
	if len(vec) != len(m.weights) {
		return 0, fmt.Errorf("feature vector length %d does not match model width %d", len(vec), len(m.weights))
	}

	z := m.bias
	for i, w := range m.weights {
		z += w * vec[i]
	}
	if math.IsNaN(z) {
		return 0, fmt.Errorf("feature vector produced non-finite activation")
	}

	return 1.0 / (1.0 + math.Exp(-z)), nil
}
