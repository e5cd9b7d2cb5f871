// Roomatch - Roommate Compatibility Matching Service
// Copyright 2026 The Roomatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/roomatch/roomatch

package models

import "time"

// Detail keys in Breakdown.Details. Each is rounded independently from
// the raw fraction, never derived from the composite sub-score.
const (
	DetailSleep                = "sleep"
	DetailCleanliness          = "cleanliness"
	DetailNoise                = "noise"
	DetailStudy                = "study"
	DetailGuests               = "guests"
	DetailIntrovertExtrovert   = "introvert_extrovert"
	DetailStructureSpontaneity = "structure_spontaneity"
	DetailMorningNight         = "morning_night"
	DetailYear                 = "year"
	DetailMajor                = "major"
)

// Breakdown carries the 0-100 sub-scores behind a pair's total.
type Breakdown struct {
	Lifestyle   int            `json:"lifestyle"`
	Personality int            `json:"personality"`
	Extras      int            `json:"extras"`
	Details     map[string]int `json:"details"`
}

// PairScore is the result of scoring one ordered pair of users.
// Total is 0-100; a dealbreaker veto forces Total to 0 and sets Vetoed.
type PairScore struct {
	UserID      string    `json:"user_id"`
	CandidateID string    `json:"candidate_id"`
	Total       int       `json:"total"`
	Vetoed      bool      `json:"vetoed,omitempty"`
	Breakdown   Breakdown `json:"breakdown"`
}

// MatchRecord is the persisted form of a computed pair score. The pair
// is stored unordered: UserAID is always the lexicographically smaller ID.
type MatchRecord struct {
	UserAID    string    `json:"user_a_id"`
	UserBID    string    `json:"user_b_id"`
	Total      int       `json:"total"`
	Breakdown  Breakdown `json:"breakdown"`
	ComputedAt time.Time `json:"computed_at"`
}

// Recommendation pairs a candidate's public projection with the score
// against the requesting user.
type Recommendation struct {
	User      PublicUser `json:"user"`
	Score     int        `json:"score"`
	Breakdown Breakdown  `json:"breakdown"`
}
