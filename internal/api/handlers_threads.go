// Roomatch - Roommate Compatibility Matching Service
// Copyright 2026 The Roomatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/roomatch/roomatch

package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/roomatch/roomatch/internal/auth"
	"github.com/roomatch/roomatch/internal/metrics"
	"github.com/roomatch/roomatch/internal/models"
	"github.com/roomatch/roomatch/internal/store"
	"github.com/roomatch/roomatch/internal/validation"
)

type createThreadRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

type postMessageRequest struct {
	Body string `json:"body" validate:"required,min=1,max=2000"`
}

// handleListThreads returns the authenticated user's conversations,
// most recently active first. Each entry carries the other member's
// public projection so clients need no follow-up lookups.
// GET /api/v1/threads
func (s *Server) handleListThreads(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	userID := auth.UserIDFromContext(r.Context())

	threads, err := s.store.ListThreads(r.Context(), userID)
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	views := make([]models.ThreadView, 0, len(threads))
	for _, t := range threads {
		otherID, ok := t.Other(userID)
		if !ok {
			continue
		}
		other, err := s.store.GetUser(r.Context(), otherID)
		if err != nil {
			// A deleted counterpart hides the thread rather than
			// failing the whole listing.
			if errors.Is(err, store.ErrUserNotFound) {
				continue
			}
			rw.DatabaseError(err)
			return
		}
		views = append(views, models.ThreadView{
			ID:            t.ID,
			Other:         other.Public(),
			CreatedAt:     t.CreatedAt,
			LastMessageAt: t.LastMessageAt,
		})
	}

	rw.SuccessWithPagination(views, &PaginationMeta{Count: len(views)})
}

// handleCreateThread opens a conversation with another member, or
// returns the existing one. Creating is idempotent per pair.
// POST /api/v1/threads
func (s *Server) handleCreateThread(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	userID := auth.UserIDFromContext(r.Context())

	var req createThreadRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if ve := validation.ValidateStruct(req); ve != nil {
		rw.ValidationError(ve)
		return
	}
	if req.UserID == userID {
		rw.BadRequest("Cannot open a thread with yourself")
		return
	}

	other, err := s.store.GetUser(r.Context(), req.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			rw.NotFound("User not found")
			return
		}
		rw.DatabaseError(err)
		return
	}

	thread, created, err := s.store.CreateOrGetThread(r.Context(), userID, other.ID)
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	view := models.ThreadView{
		ID:            thread.ID,
		Other:         other.Public(),
		CreatedAt:     thread.CreatedAt,
		LastMessageAt: thread.LastMessageAt,
	}

	if created {
		metrics.ThreadsCreatedTotal.Inc()
		s.logger.Info().Str("thread_id", thread.ID).Msg("Thread created")
		rw.Created(view)
		return
	}
	rw.Success(view)
}

// loadMemberThread fetches a thread and checks the requester belongs to
// it. Outsiders get the same 404 as a missing thread, so thread IDs
// cannot be probed.
func (s *Server) loadMemberThread(rw *ResponseWriter, r *http.Request, userID string) *models.Thread {
	threadID := chi.URLParam(r, "id")
	if threadID == "" {
		rw.BadRequest("Missing thread ID")
		return nil
	}

	thread, err := s.store.GetThread(r.Context(), threadID)
	if err != nil {
		if errors.Is(err, store.ErrThreadNotFound) {
			rw.NotFound("Thread not found")
			return nil
		}
		rw.DatabaseError(err)
		return nil
	}
	if _, ok := thread.Other(userID); !ok {
		rw.NotFound("Thread not found")
		return nil
	}
	return thread
}

// handleListMessages pages through a thread's messages, oldest first
// within each page, newest pages first. The cursor from one response
// resumes the next.
// GET /api/v1/threads/{id}/messages?cursor=&limit=
func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	userID := auth.UserIDFromContext(r.Context())

	thread := s.loadMemberThread(rw, r, userID)
	if thread == nil {
		return
	}

	limit := queryInt(r, "limit", s.cfg.API.MessagePageSize)
	if limit < 1 {
		limit = s.cfg.API.MessagePageSize
	}
	if limit > s.cfg.API.MaxPageSize {
		limit = s.cfg.API.MaxPageSize
	}

	page, err := s.store.ListMessages(r.Context(), thread.ID, r.URL.Query().Get("cursor"), limit)
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	rw.SuccessWithPagination(page.Messages, &PaginationMeta{
		Count:      len(page.Messages),
		Limit:      limit,
		HasMore:    page.NextCursor != "",
		NextCursor: page.NextCursor,
	})
}

// handlePostMessage appends a message to a thread the requester belongs
// to.
// POST /api/v1/threads/{id}/messages
func (s *Server) handlePostMessage(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	userID := auth.UserIDFromContext(r.Context())

	thread := s.loadMemberThread(rw, r, userID)
	if thread == nil {
		return
	}

	var req postMessageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if ve := validation.ValidateStruct(req); ve != nil {
		rw.ValidationError(ve)
		return
	}
	body := strings.TrimSpace(req.Body)
	if body == "" {
		rw.BadRequest("Message body cannot be blank")
		return
	}

	msg, err := s.store.AppendMessage(r.Context(), thread.ID, userID, body)
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	metrics.MessagesPostedTotal.Inc()
	rw.Created(msg)
}
