// Roomatch - Roommate Compatibility Matching Service
// Copyright 2026 The Roomatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/roomatch/roomatch

/*
Package store persists users, lifestyle profiles, match records,
threads, and messages in BadgerDB.

Key layout:

	user:<id>                    -> models.User
	user_email:<email>           -> user ID (lowercased email, uniqueness guard)
	cred:<id>                    -> bcrypt password hash
	profile:<id>                 -> models.LifestyleProfile
	match:<a>:<b>                -> models.MatchRecord (a < b lexicographically)
	thread:<id>                  -> models.Thread
	thread_pair:<a>:<b>          -> thread ID (a < b lexicographically)
	thread_user:<userID>:<tid>   -> thread ID (per-user listing index)
	msg:<tid>:<ts>:<msgID>       -> models.Message (ts zero-padded unix nanos)

All values are JSON. IDs are UUIDs and contain no ':', so compound keys
split unambiguously.
*/
package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
)

// Sentinel errors returned by lookups. Callers match with errors.Is.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailTaken      = errors.New("email already registered")
	ErrProfileNotFound = errors.New("lifestyle profile not found")
	ErrMatchNotFound   = errors.New("match record not found")
	ErrThreadNotFound  = errors.New("thread not found")
)

// Key prefixes for BadgerDB storage.
const (
	userKeyPrefix       = "user:"
	emailKeyPrefix      = "user_email:"
	credKeyPrefix       = "cred:"
	profileKeyPrefix    = "profile:"
	matchKeyPrefix      = "match:"
	threadKeyPrefix     = "thread:"
	threadPairKeyPrefix = "thread_pair:"
	threadUserKeyPrefix = "thread_user:"
	messageKeyPrefix    = "msg:"
)

// Store is the BadgerDB-backed persistence layer.
type Store struct {
	db     *badger.DB
	logger zerolog.Logger
}

// Open opens (or creates) the database at path and returns a Store.
// An empty path opens an in-memory database, used by tests.
func Open(path string, logger zerolog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path).
		WithLogger(badgerLogger{logger: logger})
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", path, err)
	}
	return New(db, logger), nil
}

// New wraps an already-open BadgerDB handle.
func New(db *badger.DB, logger zerolog.Logger) *Store {
	return &Store{
		db:     db,
		logger: logger.With().Str("component", "store").Logger(),
	}
}

// Close flushes and closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RunValueLogGC runs one value-log garbage collection pass. Returns
// badger.ErrNoRewrite when there was nothing to reclaim; callers loop
// until that error.
func (s *Store) RunValueLogGC(discardRatio float64) error {
	return s.db.RunValueLogGC(discardRatio)
}

// sortPair orders two user IDs so unordered pairs map to one key.
func sortPair(a, b string) (string, string) {
	if a > b {
		return b, a
	}
	return a, b
}

// pairSuffix builds the "<a>:<b>" key suffix for an unordered pair.
func pairSuffix(a, b string) string {
	lo, hi := sortPair(a, b)
	return lo + ":" + hi
}

// normalizeEmail lowercases and trims an email for use as a key.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// badgerLogger adapts zerolog to badger's Logger interface. Badger's
// routine compaction chatter is demoted to debug.
type badgerLogger struct {
	logger zerolog.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error().Msgf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn().Msgf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug().Msgf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug().Msgf(strings.TrimSpace(format), args...)
}
