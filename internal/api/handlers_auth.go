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

	"github.com/google/uuid"

	"github.com/roomatch/roomatch/internal/auth"
	"github.com/roomatch/roomatch/internal/models"
	"github.com/roomatch/roomatch/internal/store"
	"github.com/roomatch/roomatch/internal/validation"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Age      int    `json:"age,omitempty" validate:"omitempty,gte=16,lte=120"`
	Major    string `json:"major,omitempty" validate:"omitempty,max=100"`
	Year     string `json:"year,omitempty" validate:"omitempty,oneof=FRESHMAN SOPHOMORE JUNIOR SENIOR GRAD"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// authResponse carries the token alongside the account it grants.
type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// handleRegister creates an account and returns a fresh token.
// POST /api/v1/auth/register
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if ve := validation.ValidateStruct(req); ve != nil {
		rw.ValidationError(ve)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := auth.CheckEmailDomain(email, s.cfg.Security.AllowedEmailDomain); err != nil {
		rw.Forbidden("Registration is restricted to @" + s.cfg.Security.AllowedEmailDomain + " addresses")
		return
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		rw.InternalError("Failed to process credentials")
		return
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:        uuid.NewString(),
		Email:     email,
		Name:      strings.TrimSpace(req.Name),
		Age:       req.Age,
		Major:     strings.TrimSpace(req.Major),
		Year:      models.YearInSchool(req.Year),
		Admin:     s.cfg.Security.IsAdminEmail(email),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateUser(r.Context(), user, hash); err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			rw.Conflict("An account with this email already exists")
			return
		}
		rw.DatabaseError(err)
		return
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Email, user.Admin)
	if err != nil {
		rw.InternalError("Failed to issue token")
		return
	}

	s.logger.Info().Str("user_id", user.ID).Msg("Account registered")
	rw.Created(&authResponse{Token: token, User: user})
}

// handleLogin verifies credentials and returns a fresh token. Invalid
// email and invalid password produce the same response, so the endpoint
// does not leak which accounts exist.
// POST /api/v1/auth/login
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if ve := validation.ValidateStruct(req); ve != nil {
		rw.ValidationError(ve)
		return
	}

	user, err := s.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			rw.Unauthorized("Invalid email or password")
			return
		}
		rw.DatabaseError(err)
		return
	}

	hash, err := s.store.GetPasswordHash(r.Context(), user.ID)
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	if err := s.hasher.Verify(hash, req.Password); err != nil {
		rw.Unauthorized("Invalid email or password")
		return
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Email, user.Admin)
	if err != nil {
		rw.InternalError("Failed to issue token")
		return
	}

	rw.Success(&authResponse{Token: token, User: user})
}
