// Roomatch - Roommate Compatibility Matching Service
// Copyright 2026 The Roomatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/roomatch/roomatch

package models

import "time"

// Thread is a direct-message conversation between two matched users.
// Participants are stored unordered: UserAID is always the
// lexicographically smaller ID, so one thread exists per pair.
type Thread struct {
	ID            string    `json:"id"`
	UserAID       string    `json:"user_a_id"`
	UserBID       string    `json:"user_b_id"`
	CreatedAt     time.Time `json:"created_at"`
	LastMessageAt time.Time `json:"last_message_at"`
}

// Other returns the participant that is not userID. The second return
// is false when userID is not a participant at all.
func (t *Thread) Other(userID string) (string, bool) {
	switch userID {
	case t.UserAID:
		return t.UserBID, true
	case t.UserBID:
		return t.UserAID, true
	default:
		return "", false
	}
}

// ThreadView is a thread as listed for one participant, with the other
// participant projected in.
type ThreadView struct {
	ID            string     `json:"id"`
	Other         PublicUser `json:"other"`
	CreatedAt     time.Time  `json:"created_at"`
	LastMessageAt time.Time  `json:"last_message_at"`
}

// Message is a single message inside a thread.
type Message struct {
	ID        string    `json:"id"`
	ThreadID  string    `json:"thread_id"`
	SenderID  string    `json:"sender_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// MessagePage is one page of a thread's history, oldest first. NextCursor
// is empty when no older messages remain.
type MessagePage struct {
	Messages   []Message `json:"messages"`
	NextCursor string    `json:"next_cursor,omitempty"`
}
