// Roomatch - Roommate Compatibility Matching Service
// Copyright 2026 The Roomatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/roomatch/roomatch

// Package recommend produces ranked roommate recommendations.
//
// The engine scans the candidate pool, scores each candidate against
// the requesting user with the pair scorer, drops vetoed and zero-score
// pairs, and returns the top-N by total score. Results are cached per
// (user, limit) with a TTL; profile edits invalidate the user's entries.
//
// The Store interface keeps this package decoupled from the persistence
// layer so tests can substitute an in-memory implementation.
package recommend
