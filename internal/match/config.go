// Roomatch - Roommate Compatibility Matching Service
// Copyright 2026 The Roomatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/roomatch/roomatch

package match

import (
	"fmt"
	"math"
)

// weightSumTolerance bounds floating-point drift when validating that
// component weights sum to 1.0.
const weightSumTolerance = 1e-9

// Weights controls how the three component scores combine into the
// total. All weights must be non-negative and sum to 1.0.
type Weights struct {
	Lifestyle   float64 `json:"lifestyle" koanf:"lifestyle"`
	Personality float64 `json:"personality" koanf:"personality"`
	Extras      float64 `json:"extras" koanf:"extras"`
}

// DefaultWeights returns the production weighting: lifestyle and
// personality dominate, extras (year and major affinity) break ties.
func DefaultWeights() Weights {
	return Weights{
		Lifestyle:   0.4,
		Personality: 0.4,
		Extras:      0.2,
	}
}

// Validate checks weight invariants. A zero-value Weights fails: callers
// must choose weights explicitly or via DefaultWeights.
func (w Weights) Validate() error {
	if w.Lifestyle < 0 || w.Personality < 0 || w.Extras < 0 {
		return fmt.Errorf("match weights must be non-negative: %+v", w)
	}
	sum := w.Lifestyle + w.Personality + w.Extras
	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("match weights must sum to 1.0, got %.6f", sum)
	}
	return nil
}
