// Roomatch - Roommate Compatibility Matching Service
// Copyright 2026 The Roomatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/roomatch/roomatch

package match

import (
	"strings"

	"github.com/roomatch/roomatch/internal/models"
)

// ordinalRange is the full span of a 1-5 questionnaire attribute, used
// as maxDistance so that equal values score 1.0 and the extremes 0.0.
const ordinalRange = 4.0

// neutralScore is returned by similarity primitives when either input
// is absent: no evidence either way.
const neutralScore = 0.5

// clamp01 clamps v to [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// DistanceScore converts the absolute distance between two ordinal
// values into a similarity in [0, 1], linear in the distance.
func DistanceScore(a, b, maxDistance float64) float64 {
	if maxDistance <= 0 {
		return neutralScore
	}
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return clamp01(1 - diff/maxDistance)
}

// CategoricalMatch scores exact equality on enum values. No partial
// credit between categories.
func CategoricalMatch[T comparable](a, b T) float64 {
	if a == b {
		return 1.0
	}
	return 0.0
}

// YearDistance scores academic-year proximity on the FRESHMAN..GRAD
// rank scale. Absent or unknown years score neutral.
func YearDistance(a, b models.YearInSchool) float64 {
	ra, okA := a.Rank()
	rb, okB := b.Rank()
	if !okA || !okB {
		return neutralScore
	}
	diff := ra - rb
	if diff < 0 {
		diff = -diff
	}
	switch diff {
	case 0:
		return 1.0
	case 1:
		return 0.75
	case 2:
		return 0.5
	default:
		return 0.25
	}
}

// majorDivisions groups majors by academic division for the partial
// credit tier. Order matters: matching scans divisions in this order
// and the first division containing the major wins, so a major that
// appears under multiple keywords resolves deterministically.
var majorDivisions = []struct {
	name     string
	keywords []string
}{
	{"engineering", []string{"computer", "electrical", "computer science", "bioengineering", "mechanical"}},
	{"sciences", []string{"biology", "chemistry", "physics", "math", "mathematics"}},
	{"humanities", []string{"history", "philosophy", "literature", "language"}},
	{"social", []string{"economics", "psychology", "sociology", "politics"}},
}

// divisionOf returns the division a major belongs to, or "" when it
// matches no keyword. Matching is a case-insensitive substring check.
func divisionOf(major string) string {
	m := strings.ToLower(major)
	for _, d := range majorDivisions {
		for _, kw := range d.keywords {
			if strings.Contains(m, kw) {
				return d.name
			}
		}
	}
	return ""
}

// MajorSimilarity scores major affinity: 1.0 for a case-insensitive
// exact match, 0.7 for the same academic division, 0.4 otherwise.
// Absent majors score neutral.
func MajorSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return neutralScore
	}
	if strings.EqualFold(a, b) {
		return 1.0
	}
	da, db := divisionOf(a), divisionOf(b)
	if da != "" && da == db {
		return 0.7
	}
	return 0.4
}
