// Roomatch - Roommate Compatibility Matching Service
// Copyright 2026 The Roomatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/roomatch/roomatch

package recommend

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/roomatch/roomatch/internal/metrics"
	"github.com/roomatch/roomatch/internal/models"
	"github.com/roomatch/roomatch/internal/store"
)

// mockStore is an in-memory Store with call counters.
type mockStore struct {
	mu       sync.Mutex
	users    map[string]*models.User
	profiles map[string]*models.LifestyleProfile
	matches  []*models.MatchRecord

	listUsersCalls  atomic.Int64
	getProfileCalls atomic.Int64
	putMatchCalls   atomic.Int64
	putMatchErr     error
}

func newMockStore() *mockStore {
	return &mockStore{
		users:    make(map[string]*models.User),
		profiles: make(map[string]*models.LifestyleProfile),
	}
}

func (m *mockStore) addUser(id string, year models.YearInSchool, major string, profile *models.LifestyleProfile) {
	m.users[id] = &models.User{
		ID:               id,
		Email:            id + "@uni.edu",
		Name:             "User " + id,
		Year:             year,
		Major:            major,
		ProfileCompleted: profile != nil,
	}
	if profile != nil {
		p := *profile
		p.UserID = id
		m.profiles[id] = &p
	}
}

func (m *mockStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return u, nil
}

func (m *mockStore) GetProfile(ctx context.Context, userID string) (*models.LifestyleProfile, error) {
	m.getProfileCalls.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	if !ok {
		return nil, store.ErrProfileNotFound
	}
	return p, nil
}

func (m *mockStore) ListUsers(ctx context.Context) ([]*models.User, error) {
	m.listUsersCalls.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()
	users := make([]*models.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u)
	}
	return users, nil
}

func (m *mockStore) PutMatch(ctx context.Context, record *models.MatchRecord) error {
	m.putMatchCalls.Add(1)
	if m.putMatchErr != nil {
		return m.putMatchErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matches = append(m.matches, record)
	return nil
}

// baseProfile is compatible with itself: no dealbreakers.
func baseProfile() *models.LifestyleProfile {
	return &models.LifestyleProfile{
		SleepSchedule:        models.SleepNormal,
		Cleanliness:          3,
		NoiseTolerance:       3,
		StudyHabits:          models.StudyMix,
		Guests:               models.GuestsSometimes,
		IntrovertExtrovert:   3,
		StructureSpontaneity: 3,
		MorningNight:         3,
		PetsOK:               true,
	}
}

func newTestEngine(t *testing.T, st Store) *Engine {
	t.Helper()
	e, err := NewEngine(DefaultConfig(), st, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func TestEngine_Recommend_RanksCandidates(t *testing.T) {
	t.Parallel()
	st := newMockStore()

	st.addUser("me", models.YearJunior, "Physics", baseProfile())
	// Perfect twin.
	st.addUser("twin", models.YearJunior, "Physics", baseProfile())
	// Close but not identical.
	near := baseProfile()
	near.Cleanliness = 5
	st.addUser("near", models.YearJunior, "Physics", near)
	// Smoker: vetoed, must not appear.
	smoker := baseProfile()
	smoker.Smokes = true
	st.addUser("smoker", models.YearJunior, "Physics", smoker)
	// No profile: skipped.
	st.addUser("empty", models.YearJunior, "Physics", nil)

	e := newTestEngine(t, st)
	recs, err := e.Recommend(context.Background(), "me", 10)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	if len(recs) != 2 {
		t.Fatalf("got %d recommendations, want 2 (twin, near)", len(recs))
	}
	if recs[0].User.ID != "twin" || recs[0].Score != 100 {
		t.Errorf("top = %s/%d, want twin/100", recs[0].User.ID, recs[0].Score)
	}
	if recs[1].User.ID != "near" {
		t.Errorf("second = %s, want near", recs[1].User.ID)
	}
	if recs[0].Score < recs[1].Score {
		t.Error("results not sorted by score descending")
	}

	// Matches were persisted for both returned candidates.
	if got := st.putMatchCalls.Load(); got != 2 {
		t.Errorf("PutMatch calls = %d, want 2", got)
	}
}

func TestEngine_Recommend_TieBreaksByID(t *testing.T) {
	t.Parallel()
	st := newMockStore()

	st.addUser("me", models.YearJunior, "Physics", baseProfile())
	st.addUser("bbb", models.YearJunior, "Physics", baseProfile())
	st.addUser("aaa", models.YearJunior, "Physics", baseProfile())

	e := newTestEngine(t, st)
	recs, err := e.Recommend(context.Background(), "me", 10)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	if len(recs) != 2 || recs[0].User.ID != "aaa" || recs[1].User.ID != "bbb" {
		t.Errorf("tie order = %+v, want aaa then bbb", recs)
	}
}

func TestEngine_Recommend_LimitClamping(t *testing.T) {
	t.Parallel()
	st := newMockStore()

	st.addUser("me", models.YearJunior, "Physics", baseProfile())
	for i := 0; i < 30; i++ {
		st.addUser(string(rune('a'+i%26))+string(rune('a'+i/26)), models.YearJunior, "Physics", baseProfile())
	}

	e := newTestEngine(t, st)
	ctx := context.Background()

	recs, err := e.Recommend(ctx, "me", 0)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(recs) != e.Config().Limits.DefaultLimit {
		t.Errorf("default limit gave %d results, want %d", len(recs), e.Config().Limits.DefaultLimit)
	}

	recs, err = e.Recommend(ctx, "me", 500)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(recs) != e.Config().Limits.MaxLimit {
		t.Errorf("oversized limit gave %d results, want cap %d", len(recs), e.Config().Limits.MaxLimit)
	}
}

func TestEngine_Recommend_CacheHit(t *testing.T) {
	t.Parallel()
	st := newMockStore()
	st.addUser("me", models.YearJunior, "Physics", baseProfile())
	st.addUser("other", models.YearJunior, "Physics", baseProfile())

	e := newTestEngine(t, st)
	ctx := context.Background()

	if _, err := e.Recommend(ctx, "me", 10); err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if _, err := e.Recommend(ctx, "me", 10); err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	if got := st.listUsersCalls.Load(); got != 1 {
		t.Errorf("ListUsers calls = %d, want 1 (second request cached)", got)
	}

	stats := e.Stats()
	if stats.CacheHits != 1 || stats.CacheMisses != 1 || stats.Requests != 2 {
		t.Errorf("stats = %+v, want 1 hit, 1 miss, 2 requests", stats)
	}
}

func TestEngine_Recommend_InvalidateForcesRecompute(t *testing.T) {
	t.Parallel()
	st := newMockStore()
	st.addUser("me", models.YearJunior, "Physics", baseProfile())
	st.addUser("other", models.YearJunior, "Physics", baseProfile())

	e := newTestEngine(t, st)
	ctx := context.Background()

	if _, err := e.Recommend(ctx, "me", 10); err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if _, err := e.Recompute(ctx, "me", 10); err != nil {
		t.Fatalf("Recompute: %v", err)
	}

	if got := st.listUsersCalls.Load(); got != 2 {
		t.Errorf("ListUsers calls = %d, want 2 after invalidation", got)
	}
}

func TestEngine_InvalidateAll(t *testing.T) {
	t.Parallel()
	st := newMockStore()
	st.addUser("me", models.YearJunior, "Physics", baseProfile())
	st.addUser("you", models.YearJunior, "Physics", baseProfile())
	st.addUser("other", models.YearJunior, "Physics", baseProfile())

	e := newTestEngine(t, st)
	ctx := context.Background()

	// Warm cached lists for two different users, then clear everything.
	if _, err := e.Recommend(ctx, "me", 10); err != nil {
		t.Fatalf("Recommend me: %v", err)
	}
	if _, err := e.Recommend(ctx, "you", 10); err != nil {
		t.Fatalf("Recommend you: %v", err)
	}
	if e.CacheSize() != 2 {
		t.Fatalf("cache size = %d, want 2", e.CacheSize())
	}

	e.InvalidateAll()
	if e.CacheSize() != 0 {
		t.Errorf("cache size after InvalidateAll = %d, want 0", e.CacheSize())
	}

	if _, err := e.Recommend(ctx, "me", 10); err != nil {
		t.Fatalf("Recommend after invalidate: %v", err)
	}
	if got := st.listUsersCalls.Load(); got != 3 {
		t.Errorf("ListUsers calls = %d, want 3 after clear-all", got)
	}
}

func TestEngine_Recommend_NoProfileIsEmpty(t *testing.T) {
	t.Parallel()
	st := newMockStore()
	st.addUser("me", models.YearJunior, "Physics", nil)
	st.addUser("other", models.YearJunior, "Physics", baseProfile())

	e := newTestEngine(t, st)
	recs, err := e.Recommend(context.Background(), "me", 10)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("got %d recommendations without a profile, want 0", len(recs))
	}

	// Unknown user behaves the same.
	recs, err = e.Recommend(context.Background(), "ghost", 10)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("got %d recommendations for unknown user, want 0", len(recs))
	}
}

func TestEngine_Recommend_PersistFailureSwallowed(t *testing.T) {
	t.Parallel()
	st := newMockStore()
	st.addUser("me", models.YearJunior, "Physics", baseProfile())
	st.addUser("other", models.YearJunior, "Physics", baseProfile())
	st.putMatchErr = errors.New("disk full")

	e := newTestEngine(t, st)
	recs, err := e.Recommend(context.Background(), "me", 10)
	if err != nil {
		t.Fatalf("Recommend failed on persistence error: %v", err)
	}
	if len(recs) != 1 {
		t.Errorf("got %d recommendations, want 1 despite persist failure", len(recs))
	}
}

func TestEngine_PairScore(t *testing.T) {
	t.Parallel()
	st := newMockStore()
	st.addUser("a", models.YearJunior, "Physics", baseProfile())
	st.addUser("b", models.YearJunior, "Physics", baseProfile())
	st.addUser("incomplete", models.YearJunior, "Physics", nil)

	e := newTestEngine(t, st)
	ctx := context.Background()

	score, err := e.PairScore(ctx, "a", "b")
	if err != nil {
		t.Fatalf("PairScore: %v", err)
	}
	if score.Total != 100 {
		t.Errorf("Total = %d, want 100 for identical profiles", score.Total)
	}
	if got := st.putMatchCalls.Load(); got != 1 {
		t.Errorf("PutMatch calls = %d, want 1", got)
	}

	if _, err := e.PairScore(ctx, "a", "incomplete"); !errors.Is(err, ErrProfileIncomplete) {
		t.Errorf("incomplete side error = %v, want ErrProfileIncomplete", err)
	}
	if _, err := e.PairScore(ctx, "a", "ghost"); !errors.Is(err, store.ErrUserNotFound) {
		t.Errorf("unknown side error = %v, want ErrUserNotFound", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		modify    func(*Config)
		wantError bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"zero default limit", func(c *Config) { c.Limits.DefaultLimit = 0 }, true},
		{"max below default", func(c *Config) { c.Limits.MaxLimit = 5 }, true},
		{"zero ttl", func(c *Config) { c.Cache.TTL = 0 }, true},
		{"zero cache size", func(c *Config) { c.Cache.MaxEntries = 0 }, true},
		{"zero concurrency", func(c *Config) { c.MaxConcurrency = 0 }, true},
		{"bad weights", func(c *Config) { c.Weights.Extras = 0.9 }, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantError {
				t.Errorf("Validate() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestEngine_Recommend_ExportsCacheCounters(t *testing.T) {
	t.Parallel()
	st := newMockStore()
	st.addUser("me", models.YearJunior, "Physics", baseProfile())
	st.addUser("twin", models.YearJunior, "Physics", baseProfile())

	e := newTestEngine(t, st)
	ctx := context.Background()

	// The collectors are process-global and other tests move them too,
	// so assert deltas rather than absolute values.
	missesBefore := testutil.ToFloat64(metrics.RecommendCacheMisses)
	hitsBefore := testutil.ToFloat64(metrics.RecommendCacheHits)

	if _, err := e.Recommend(ctx, "me", 10); err != nil {
		t.Fatalf("Recommend (cold): %v", err)
	}
	if got := testutil.ToFloat64(metrics.RecommendCacheMisses); got <= missesBefore {
		t.Errorf("cache miss counter = %v, want > %v", got, missesBefore)
	}

	if _, err := e.Recommend(ctx, "me", 10); err != nil {
		t.Fatalf("Recommend (warm): %v", err)
	}
	if got := testutil.ToFloat64(metrics.RecommendCacheHits); got <= hitsBefore {
		t.Errorf("cache hit counter = %v, want > %v", got, hitsBefore)
	}
}

func TestEngine_IncompleteFlagGatesBothSides(t *testing.T) {
	t.Parallel()
	st := newMockStore()
	st.addUser("me", models.YearJunior, "Physics", baseProfile())
	st.addUser("half", models.YearJunior, "Physics", baseProfile())
	// A profile write that landed without the account flag flip leaves
	// the user half-onboarded. They must be invisible in both
	// directions until the flag is set.
	st.users["half"].ProfileCompleted = false

	e := newTestEngine(t, st)
	ctx := context.Background()

	recs, err := e.Recommend(ctx, "half", 10)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("got %d recommendations for incomplete user, want 0", len(recs))
	}

	recs, err = e.Recommend(ctx, "me", 10)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("incomplete user surfaced as candidate: %d results, want 0", len(recs))
	}

	if _, err := e.PairScore(ctx, "me", "half"); !errors.Is(err, ErrProfileIncomplete) {
		t.Errorf("PairScore against incomplete user = %v, want ErrProfileIncomplete", err)
	}
}
