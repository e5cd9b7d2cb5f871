// Roomatch - Roommate Compatibility Matching Service
// Copyright 2026 The Roomatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/roomatch/roomatch

package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/roomatch/roomatch/internal/auth"
	"github.com/roomatch/roomatch/internal/config"
	"github.com/roomatch/roomatch/internal/models"
	"github.com/roomatch/roomatch/internal/recommend"
	"github.com/roomatch/roomatch/internal/store"
)

// testEnvelope mirrors APIResponse with a raw Data payload so each test
// can decode into its own type.
type testEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
	Meta    *APIMeta        `json:"meta"`
}

type testServer struct {
	handler http.Handler
	store   *store.Store
	jwt     *auth.JWTManager
	server  *Server
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := config.Default()
	cfg.Security.JWTSecret = strings.Repeat("k", 32)
	cfg.Security.BcryptCost = bcrypt.MinCost
	cfg.Security.AdminEmails = []string{"admin@example.edu"}

	st, err := store.Open("", zerolog.Nop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})

	engine, err := recommend.NewEngine(recommend.DefaultConfig(), st, zerolog.Nop())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	jwtManager, err := auth.NewJWTManager(cfg.Security.JWTSecret, time.Hour)
	if err != nil {
		t.Fatalf("new jwt manager: %v", err)
	}

	srv := NewServer(cfg, st, engine, jwtManager)
	return &testServer{
		handler: srv.Router(),
		store:   st,
		jwt:     jwtManager,
		server:  srv,
	}
}

// seedUser creates an account directly in storage and returns it with a
// valid token. Registration via HTTP is exercised by the auth tests
// only, to stay clear of the credential-endpoint rate limit elsewhere.
func (ts *testServer) seedUser(t *testing.T, name string, admin bool) (*models.User, string) {
	t.Helper()

	// Uniform year and major keep the extras component at 1.0, so two
	// identically-seeded profiles score a full 100.
	now := time.Now().UTC()
	user := &models.User{
		ID:        uuid.NewString(),
		Email:     strings.ToLower(name) + "@example.edu",
		Name:      name,
		Major:     "Biology",
		Year:      models.YearJunior,
		Admin:     admin,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := ts.store.CreateUser(context.Background(), user, "$2a$04$unusedhashunusedhashunusedhash"); err != nil {
		t.Fatalf("seed user %s: %v", name, err)
	}

	token, err := ts.jwt.GenerateToken(user.ID, user.Email, user.Admin)
	if err != nil {
		t.Fatalf("token for %s: %v", name, err)
	}
	return user, token
}

// seedProfile stores questionnaire answers and flips ProfileCompleted.
func (ts *testServer) seedProfile(t *testing.T, user *models.User, mutate func(*models.LifestyleProfile)) {
	t.Helper()

	profile := &models.LifestyleProfile{
		UserID:               user.ID,
		SleepSchedule:        models.SleepNormal,
		Cleanliness:          3,
		NoiseTolerance:       3,
		StudyHabits:          models.StudyMix,
		Guests:               models.GuestsSometimes,
		IntrovertExtrovert:   3,
		StructureSpontaneity: 3,
		MorningNight:         3,
		UpdatedAt:            time.Now().UTC(),
	}
	if mutate != nil {
		mutate(profile)
	}
	if err := ts.store.PutProfile(context.Background(), profile); err != nil {
		t.Fatalf("seed profile for %s: %v", user.Name, err)
	}

	user.ProfileCompleted = true
	if err := ts.store.UpdateUser(context.Background(), user); err != nil {
		t.Fatalf("mark profile complete for %s: %v", user.Name, err)
	}
}

// do runs one request through the router and decodes the envelope.
func (ts *testServer) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, *testEnvelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	if rec.Code == http.StatusNoContent || rec.Body.Len() == 0 {
		return rec, &testEnvelope{}
	}

	var env testEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope (%d %s): %v\nbody: %s", rec.Code, path, err, rec.Body.String())
	}
	return rec, &env
}

// decodeData unmarshals the envelope payload into out.
func decodeData(t *testing.T, env *testEnvelope, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("decode data: %v\ndata: %s", err, string(env.Data))
	}
}
