// Roomatch - Roommate Compatibility Matching Service
// Copyright 2026 The Roomatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/roomatch/roomatch

package api

import (
	"net/http"
	"testing"

	"github.com/roomatch/roomatch/internal/models"
)

func TestRegister(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)

	rec, env := ts.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"email":    "Alice@Example.edu",
		"password": "hunter2hunter2",
		"name":     "Alice",
		"year":     "JUNIOR",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body %s", rec.Code, rec.Body.String())
	}
	if !env.Success {
		t.Fatal("expected success envelope")
	}

	var resp authResponse
	decodeData(t, env, &resp)
	if resp.Token == "" {
		t.Error("expected a token")
	}
	if resp.User.Email != "alice@example.edu" {
		t.Errorf("email = %q, want lowercased", resp.User.Email)
	}
	if resp.User.Admin {
		t.Error("regular account must not be admin")
	}
	if resp.User.ProfileCompleted {
		t.Error("fresh account must not be profile-complete")
	}
	if resp.User.Year != models.YearJunior {
		t.Errorf("year = %q, want JUNIOR", resp.User.Year)
	}
}

func TestRegister_AdminEmail(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)

	rec, env := ts.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"email":    "admin@example.edu",
		"password": "hunter2hunter2",
		"name":     "Admin",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	var resp authResponse
	decodeData(t, env, &resp)
	if !resp.User.Admin {
		t.Error("configured admin email must get the admin role")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	body := map[string]interface{}{
		"email":    "bob@example.edu",
		"password": "hunter2hunter2",
		"name":     "Bob",
	}

	if rec, _ := ts.do(t, http.MethodPost, "/api/v1/auth/register", "", body); rec.Code != http.StatusCreated {
		t.Fatalf("first register: status = %d, want 201", rec.Code)
	}

	rec, env := ts.do(t, http.MethodPost, "/api/v1/auth/register", "", body)
	if rec.Code != http.StatusConflict {
		t.Fatalf("second register: status = %d, want 409", rec.Code)
	}
	if env.Error == nil || env.Error.Code != ErrCodeConflict {
		t.Fatalf("error = %+v, want code CONFLICT", env.Error)
	}
}

func TestRegister_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{
			name: "missing email",
			body: map[string]interface{}{"password": "hunter2hunter2", "name": "X"},
		},
		{
			name: "malformed email",
			body: map[string]interface{}{"email": "not-an-email", "password": "hunter2hunter2", "name": "X"},
		},
		{
			name: "short password",
			body: map[string]interface{}{"email": "x@example.edu", "password": "short", "name": "X"},
		},
		{
			name: "bad year",
			body: map[string]interface{}{"email": "x@example.edu", "password": "hunter2hunter2", "name": "X", "year": "SUPERSENIOR"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ts := newTestServer(t)
			rec, env := ts.do(t, http.MethodPost, "/api/v1/auth/register", "", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400; body %s", rec.Code, rec.Body.String())
			}
			if env.Error == nil || env.Error.Code != ErrCodeValidationFailed {
				t.Fatalf("error = %+v, want code VALIDATION_ERROR", env.Error)
			}
		})
	}
}

func TestRegister_DomainRestriction(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	ts.server.cfg.Security.AllowedEmailDomain = "uni.edu"

	rec, env := ts.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"email":    "outsider@gmail.com",
		"password": "hunter2hunter2",
		"name":     "Outsider",
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if env.Error == nil || env.Error.Code != ErrCodeForbidden {
		t.Fatalf("error = %+v, want code FORBIDDEN", env.Error)
	}

	if rec, _ := ts.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"email":    "insider@uni.edu",
		"password": "hunter2hunter2",
		"name":     "Insider",
	}); rec.Code != http.StatusCreated {
		t.Fatalf("allowed-domain register: status = %d, want 201", rec.Code)
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	register := map[string]interface{}{
		"email":    "carol@example.edu",
		"password": "letmein-please",
		"name":     "Carol",
	}
	if rec, _ := ts.do(t, http.MethodPost, "/api/v1/auth/register", "", register); rec.Code != http.StatusCreated {
		t.Fatalf("register: status = %d, want 201", rec.Code)
	}

	t.Run("valid credentials", func(t *testing.T) {
		rec, env := ts.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
			"email":    "carol@example.edu",
			"password": "letmein-please",
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
		}

		var resp authResponse
		decodeData(t, env, &resp)
		if resp.Token == "" {
			t.Error("expected a token")
		}

		// The token must actually open authenticated routes.
		if rec, _ := ts.do(t, http.MethodGet, "/api/v1/me", resp.Token, nil); rec.Code != http.StatusOK {
			t.Errorf("GET /me with fresh token: status = %d, want 200", rec.Code)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		rec, env := ts.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
			"email":    "carol@example.edu",
			"password": "wrong-password",
		})
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
		if env.Error.Message != "Invalid email or password" {
			t.Errorf("message = %q, must not leak which part failed", env.Error.Message)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		rec, env := ts.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
			"email":    "nobody@example.edu",
			"password": "letmein-please",
		})
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
		if env.Error.Message != "Invalid email or password" {
			t.Errorf("message = %q, must match the wrong-password case", env.Error.Message)
		}
	})
}
