// Roomatch - Roommate Compatibility Matching Service
// Copyright 2026 The Roomatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/roomatch/roomatch

/*
scorer.go - Pair Compatibility Scoring

Score combines three weighted components into a 0-100 total:

  - lifestyle: sleep schedule, cleanliness, noise tolerance, study
    habits, and guest frequency
  - personality: three 1-5 axes (introvert/extrovert,
    structure/spontaneity, morning/night)
  - extras: academic-year proximity and major affinity

Dealbreakers are evaluated first and veto the pair to a zero total
before any component is computed. Every sub-score and detail term is
rounded independently from its raw fraction; the total is rounded from
the weighted combination of the raw (unrounded) fractions.
*/
package match

import (
	"math"

	"github.com/roomatch/roomatch/internal/models"
)

// Lifestyle component weights. Sleep, cleanliness, and noise carry
// double the weight of study habits and guests; the five sum to 1.0.
const (
	lifestyleWeightSleep       = 0.25
	lifestyleWeightCleanliness = 0.25
	lifestyleWeightNoise       = 0.25
	lifestyleWeightStudy       = 0.125
	lifestyleWeightGuests      = 0.125
)

// Extras component weights: year proximity dominates major affinity.
const (
	extrasWeightYear  = 0.6
	extrasWeightMajor = 0.4
)

// Input is one side of a pair to score: the account (year, major) plus
// the lifestyle questionnaire.
type Input struct {
	User    *models.User
	Profile *models.LifestyleProfile
}

// roundPct converts a raw [0,1] fraction to a 0-100 integer score,
// rounding half away from zero.
func roundPct(frac float64) int {
	return int(math.Round(frac * 100))
}

// Score computes the compatibility of a pair under the given weights.
// UserID and CandidateID on the result follow the argument order;
// everything else is symmetric in the inputs.
func Score(a, b Input, w Weights) models.PairScore {
	res := models.PairScore{
		UserID:      a.User.ID,
		CandidateID: b.User.ID,
	}

	if HasDealbreaker(a.Profile, b.Profile) {
		res.Vetoed = true
		res.Breakdown.Details = map[string]int{}
		return res
	}

	details := make(map[string]int, 10)

	sleep := CategoricalMatch(a.Profile.SleepSchedule, b.Profile.SleepSchedule)
	clean := DistanceScore(float64(a.Profile.Cleanliness), float64(b.Profile.Cleanliness), ordinalRange)
	noise := DistanceScore(float64(a.Profile.NoiseTolerance), float64(b.Profile.NoiseTolerance), ordinalRange)
	study := CategoricalMatch(a.Profile.StudyHabits, b.Profile.StudyHabits)
	guests := CategoricalMatch(a.Profile.Guests, b.Profile.Guests)
	details[models.DetailSleep] = roundPct(sleep)
	details[models.DetailCleanliness] = roundPct(clean)
	details[models.DetailNoise] = roundPct(noise)
	details[models.DetailStudy] = roundPct(study)
	details[models.DetailGuests] = roundPct(guests)

	lifestyleRaw := lifestyleWeightSleep*sleep +
		lifestyleWeightCleanliness*clean +
		lifestyleWeightNoise*noise +
		lifestyleWeightStudy*study +
		lifestyleWeightGuests*guests

	introExtro := DistanceScore(float64(a.Profile.IntrovertExtrovert), float64(b.Profile.IntrovertExtrovert), ordinalRange)
	structSpont := DistanceScore(float64(a.Profile.StructureSpontaneity), float64(b.Profile.StructureSpontaneity), ordinalRange)
	morningNight := DistanceScore(float64(a.Profile.MorningNight), float64(b.Profile.MorningNight), ordinalRange)
	details[models.DetailIntrovertExtrovert] = roundPct(introExtro)
	details[models.DetailStructureSpontaneity] = roundPct(structSpont)
	details[models.DetailMorningNight] = roundPct(morningNight)

	personalityRaw := (introExtro + structSpont + morningNight) / 3

	year := YearDistance(a.User.Year, b.User.Year)
	major := MajorSimilarity(a.User.Major, b.User.Major)
	details[models.DetailYear] = roundPct(year)
	details[models.DetailMajor] = roundPct(major)

	extrasRaw := extrasWeightYear*year + extrasWeightMajor*major

	total01 := w.Lifestyle*lifestyleRaw + w.Personality*personalityRaw + w.Extras*extrasRaw

	res.Total = roundPct(clamp01(total01))
	res.Breakdown = models.Breakdown{
		Lifestyle:   roundPct(lifestyleRaw),
		Personality: roundPct(personalityRaw),
		Extras:      roundPct(extrasRaw),
		Details:     details,
	}
	return res
}
