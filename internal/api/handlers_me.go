// Roomatch - Roommate Compatibility Matching Service
// Copyright 2026 The Roomatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/roomatch/roomatch

package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/roomatch/roomatch/internal/auth"
	"github.com/roomatch/roomatch/internal/models"
	"github.com/roomatch/roomatch/internal/store"
	"github.com/roomatch/roomatch/internal/validation"
)

type updateMeRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=100"`
	Age   int    `json:"age,omitempty" validate:"omitempty,gte=16,lte=120"`
	Major string `json:"major,omitempty" validate:"omitempty,max=100"`
	Year  string `json:"year,omitempty" validate:"omitempty,oneof=FRESHMAN SOPHOMORE JUNIOR SENIOR GRAD"`
}

type profileRequest struct {
	SleepSchedule        string `json:"sleep_schedule" validate:"required,oneof=EARLY NORMAL LATE"`
	Cleanliness          int    `json:"cleanliness" validate:"required,gte=1,lte=5"`
	NoiseTolerance       int    `json:"noise_tolerance" validate:"required,gte=1,lte=5"`
	StudyHabits          string `json:"study_habits" validate:"required,oneof=LIBRARY ROOM MIX"`
	Guests               string `json:"guests" validate:"required,oneof=RARE SOMETIMES OFTEN"`
	IntrovertExtrovert   int    `json:"introvert_extrovert" validate:"required,gte=1,lte=5"`
	StructureSpontaneity int    `json:"structure_spontaneity" validate:"required,gte=1,lte=5"`
	MorningNight         int    `json:"morning_night" validate:"required,gte=1,lte=5"`
	Smokes               bool   `json:"smokes"`
	PetsOK               bool   `json:"pets_ok"`
	PetAllergies         bool   `json:"pet_allergies"`
	SpecialRequests      string `json:"special_requests,omitempty" validate:"omitempty,max=500"`
}

// handleGetMe returns the authenticated account.
// GET /api/v1/me
func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	user, err := s.store.GetUser(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			rw.NotFound("Account no longer exists")
			return
		}
		rw.DatabaseError(err)
		return
	}

	rw.Success(user)
}

// handleUpdateMe updates mutable account fields. Email is immutable.
// PUT /api/v1/me
func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req updateMeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if ve := validation.ValidateStruct(req); ve != nil {
		rw.ValidationError(ve)
		return
	}

	user, err := s.store.GetUser(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			rw.NotFound("Account no longer exists")
			return
		}
		rw.DatabaseError(err)
		return
	}

	user.Name = strings.TrimSpace(req.Name)
	user.Age = req.Age
	user.Major = strings.TrimSpace(req.Major)
	user.Year = models.YearInSchool(req.Year)
	user.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateUser(r.Context(), user); err != nil {
		rw.DatabaseError(err)
		return
	}

	// Major and year feed the extras score, and this user appears as a
	// candidate in other users' cached lists too.
	s.engine.InvalidateAll()

	rw.Success(user)
}

// handleGetMyProfile returns the questionnaire answers.
// GET /api/v1/me/profile
func (s *Server) handleGetMyProfile(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	profile, err := s.store.GetProfile(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		if errors.Is(err, store.ErrProfileNotFound) {
			rw.NotFound("Lifestyle profile not completed yet")
			return
		}
		rw.DatabaseError(err)
		return
	}

	rw.Success(profile)
}

// handlePutMyProfile stores the questionnaire answers, marks the
// account profile-complete, and drops stale cached recommendations.
// PUT /api/v1/me/profile
func (s *Server) handlePutMyProfile(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req profileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if ve := validation.ValidateStruct(req); ve != nil {
		rw.ValidationError(ve)
		return
	}

	userID := auth.UserIDFromContext(r.Context())
	user, err := s.store.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			rw.NotFound("Account no longer exists")
			return
		}
		rw.DatabaseError(err)
		return
	}

	now := time.Now().UTC()
	profile := &models.LifestyleProfile{
		UserID:               userID,
		SleepSchedule:        models.SleepSchedule(req.SleepSchedule),
		Cleanliness:          req.Cleanliness,
		NoiseTolerance:       req.NoiseTolerance,
		StudyHabits:          models.StudyHabits(req.StudyHabits),
		Guests:               models.GuestsFrequency(req.Guests),
		IntrovertExtrovert:   req.IntrovertExtrovert,
		StructureSpontaneity: req.StructureSpontaneity,
		MorningNight:         req.MorningNight,
		Smokes:               req.Smokes,
		PetsOK:               req.PetsOK,
		PetAllergies:         req.PetAllergies,
		SpecialRequests:      strings.TrimSpace(req.SpecialRequests),
		UpdatedAt:            now,
	}

	if err := s.store.PutProfile(r.Context(), profile); err != nil {
		rw.DatabaseError(err)
		return
	}

	if !user.ProfileCompleted {
		user.ProfileCompleted = true
		user.UpdatedAt = now
		if err := s.store.UpdateUser(r.Context(), user); err != nil {
			rw.DatabaseError(err)
			return
		}
	}

	// Changed answers shift this user's scores in every cached list,
	// theirs and everyone else's they appear in as a candidate.
	s.engine.InvalidateAll()

	rw.Success(profile)
}
