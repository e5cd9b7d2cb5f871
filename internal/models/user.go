// Roomatch - Roommate Compatibility Matching Service
// Copyright 2026 The Roomatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/roomatch/roomatch

package models

import "time"

// YearInSchool is the ordered academic-year enum. Rank distances feed the
// extras component of the compatibility score.
type YearInSchool string

const (
	YearFreshman  YearInSchool = "FRESHMAN"
	YearSophomore YearInSchool = "SOPHOMORE"
	YearJunior    YearInSchool = "JUNIOR"
	YearSenior    YearInSchool = "SENIOR"
	YearGrad      YearInSchool = "GRAD"
)

// Rank maps the enum to its integer position (FRESHMAN=0 .. GRAD=4).
// The second return is false for empty or unrecognized values, which
// scorers treat as "absent" rather than an error.
func (y YearInSchool) Rank() (int, bool) {
	switch y {
	case YearFreshman:
		return 0, true
	case YearSophomore:
		return 1, true
	case YearJunior:
		return 2, true
	case YearSenior:
		return 3, true
	case YearGrad:
		return 4, true
	default:
		return 0, false
	}
}

// Valid reports whether y is one of the known enum values.
func (y YearInSchool) Valid() bool {
	_, ok := y.Rank()
	return ok
}

// SleepSchedule is the categorical sleep-schedule enum.
type SleepSchedule string

const (
	SleepEarly  SleepSchedule = "EARLY"
	SleepNormal SleepSchedule = "NORMAL"
	SleepLate   SleepSchedule = "LATE"
)

// StudyHabits is the categorical study-location enum.
type StudyHabits string

const (
	StudyLibrary StudyHabits = "LIBRARY"
	StudyRoom    StudyHabits = "ROOM"
	StudyMix     StudyHabits = "MIX"
)

// GuestsFrequency is the categorical guest-frequency enum.
type GuestsFrequency string

const (
	GuestsRare      GuestsFrequency = "RARE"
	GuestsSometimes GuestsFrequency = "SOMETIMES"
	GuestsOften     GuestsFrequency = "OFTEN"
)

// User is a registered account. The password hash lives in the storage
// layer, never on this struct, so User can be serialized to API clients
// without redaction mistakes.
type User struct {
	ID               string       `json:"id"`
	Email            string       `json:"email"`
	Name             string       `json:"name"`
	Age              int          `json:"age,omitempty"`
	Major            string       `json:"major,omitempty"`
	Year             YearInSchool `json:"year,omitempty"`
	Admin            bool         `json:"admin,omitempty"`
	ProfileCompleted bool         `json:"profile_completed"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// PublicUser is the projection of a User shown to other members.
// Email is deliberately absent.
type PublicUser struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Age              int          `json:"age,omitempty"`
	Major            string       `json:"major,omitempty"`
	Year             YearInSchool `json:"year,omitempty"`
	ProfileCompleted bool         `json:"profile_completed"`
}

// Public returns the member-visible projection of u.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:               u.ID,
		Name:             u.Name,
		Age:              u.Age,
		Major:            u.Major,
		Year:             u.Year,
		ProfileCompleted: u.ProfileCompleted,
	}
}

// LifestyleProfile holds the questionnaire answers the scoring engine
// consumes. Ordinal attributes are 1-5 inclusive.
type LifestyleProfile struct {
	UserID               string          `json:"user_id"`
	SleepSchedule        SleepSchedule   `json:"sleep_schedule"`
	Cleanliness          int             `json:"cleanliness"`
	NoiseTolerance       int             `json:"noise_tolerance"`
	StudyHabits          StudyHabits     `json:"study_habits"`
	Guests               GuestsFrequency `json:"guests"`
	IntrovertExtrovert   int             `json:"introvert_extrovert"`
	StructureSpontaneity int             `json:"structure_spontaneity"`
	MorningNight         int             `json:"morning_night"`
	Smokes               bool            `json:"smokes"`
	PetsOK               bool            `json:"pets_ok"`
	PetAllergies         bool            `json:"pet_allergies"`
	SpecialRequests      string          `json:"special_requests,omitempty"`
	UpdatedAt            time.Time       `json:"updated_at"`
}
