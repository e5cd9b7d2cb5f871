// Roomatch - Roommate Compatibility Matching Service
// Copyright 2026 The Roomatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/roomatch/roomatch

package match

import "github.com/roomatch/roomatch/internal/models"

// SmokingConflict vetoes when exactly one of the two profiles smokes.
// Symmetric by construction: two smokers, or two non-smokers, pass.
func SmokingConflict(a, b *models.LifestyleProfile) bool {
	return a.Smokes != b.Smokes
}

// PetsConflict vetoes on pet incompatibility. Two cases, each checked
// in both directions:
//   - one side has pet allergies and the other is pets-ok
//   - the two sides disagree on pets-ok at all
//
// The second case means any pets-ok mismatch vetoes outright, even
// between two non-allergic users. That is the shipped behavior and is
// kept as-is pending product clarification.
// TODO: confirm with product whether a bare pets-ok mismatch should be
// a penalty instead of a veto.
func PetsConflict(a, b *models.LifestyleProfile) bool {
	if (a.PetAllergies && b.PetsOK) || (b.PetAllergies && a.PetsOK) {
		return true
	}
	return a.PetsOK != b.PetsOK
}

// HasDealbreaker reports whether any dealbreaker vetoes the pair.
// Every predicate is symmetric, so HasDealbreaker(a, b) ==
// HasDealbreaker(b, a).
func HasDealbreaker(a, b *models.LifestyleProfile) bool {
	return SmokingConflict(a, b) || PetsConflict(a, b)
}
