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

func TestCreateThread(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	_, token := ts.seedUser(t, "Olive", false)
	other, _ := ts.seedUser(t, "Pete", false)

	rec, env := ts.do(t, http.MethodPost, "/api/v1/threads", token, map[string]interface{}{
		"user_id": other.ID,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body %s", rec.Code, rec.Body.String())
	}

	var view models.ThreadView
	decodeData(t, env, &view)
	if view.ID == "" {
		t.Fatal("expected a thread ID")
	}
	if view.Other.ID != other.ID {
		t.Errorf("other = %q, want %q", view.Other.ID, other.ID)
	}

	// Same pair again: the existing thread comes back with a 200.
	rec, env = ts.do(t, http.MethodPost, "/api/v1/threads", token, map[string]interface{}{
		"user_id": other.ID,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("repeat create: status = %d, want 200", rec.Code)
	}
	var again models.ThreadView
	decodeData(t, env, &again)
	if again.ID != view.ID {
		t.Errorf("repeat create returned thread %q, want %q", again.ID, view.ID)
	}
}

func TestCreateThread_Invalid(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	self, token := ts.seedUser(t, "Quinn", false)

	t.Run("with self", func(t *testing.T) {
		rec, _ := ts.do(t, http.MethodPost, "/api/v1/threads", token, map[string]interface{}{
			"user_id": self.ID,
		})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		rec, _ := ts.do(t, http.MethodPost, "/api/v1/threads", token, map[string]interface{}{
			"user_id": "no-such-user",
		})
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("missing user_id", func(t *testing.T) {
		rec, _ := ts.do(t, http.MethodPost, "/api/v1/threads", token, map[string]interface{}{})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})
}

func TestListThreads(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	_, token := ts.seedUser(t, "Rosa", false)
	first, _ := ts.seedUser(t, "Sam", false)
	second, _ := ts.seedUser(t, "Tess", false)

	for _, other := range []string{first.ID, second.ID} {
		if rec, _ := ts.do(t, http.MethodPost, "/api/v1/threads", token, map[string]interface{}{
			"user_id": other,
		}); rec.Code != http.StatusCreated {
			t.Fatalf("create thread with %s: status = %d, want 201", other, rec.Code)
		}
	}

	rec, env := ts.do(t, http.MethodGet, "/api/v1/threads", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var views []models.ThreadView
	decodeData(t, env, &views)
	if len(views) != 2 {
		t.Fatalf("got %d threads, want 2", len(views))
	}
	for _, v := range views {
		if v.Other.ID != first.ID && v.Other.ID != second.ID {
			t.Errorf("unexpected counterpart %q", v.Other.ID)
		}
	}
}

func TestMessages(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	_, token := ts.seedUser(t, "Uma", false)
	other, otherToken := ts.seedUser(t, "Vic", false)
	_, outsiderToken := ts.seedUser(t, "Walt", false)

	rec, env := ts.do(t, http.MethodPost, "/api/v1/threads", token, map[string]interface{}{
		"user_id": other.ID,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create thread: status = %d", rec.Code)
	}
	var thread models.ThreadView
	decodeData(t, env, &thread)

	messagesPath := "/api/v1/threads/" + thread.ID + "/messages"

	// Both members can post; the outsider sees a 404, not a 403, so
	// thread IDs cannot be confirmed by probing.
	for i, body := range []string{"hi", "hello", "want to tour the dorm?"} {
		tok := token
		if i == 1 {
			tok = otherToken
		}
		rec, env := ts.do(t, http.MethodPost, messagesPath, tok, map[string]interface{}{"body": body})
		if rec.Code != http.StatusCreated {
			t.Fatalf("post message %d: status = %d; body %s", i, rec.Code, rec.Body.String())
		}
		var msg models.Message
		decodeData(t, env, &msg)
		if msg.Body != body {
			t.Errorf("message body = %q, want %q", msg.Body, body)
		}
	}

	if rec, _ := ts.do(t, http.MethodPost, messagesPath, outsiderToken, map[string]interface{}{
		"body": "let me in",
	}); rec.Code != http.StatusNotFound {
		t.Fatalf("outsider post: status = %d, want 404", rec.Code)
	}
	if rec, _ := ts.do(t, http.MethodGet, messagesPath, outsiderToken, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("outsider list: status = %d, want 404", rec.Code)
	}

	t.Run("pagination", func(t *testing.T) {
		rec, env := ts.do(t, http.MethodGet, messagesPath+"?limit=2", token, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("first page: status = %d", rec.Code)
		}
		var page []models.Message
		decodeData(t, env, &page)
		if len(page) != 2 {
			t.Fatalf("first page has %d messages, want 2", len(page))
		}
		if page[0].Body != "hello" || page[1].Body != "want to tour the dorm?" {
			t.Errorf("first page = [%q, %q], want the two newest oldest-first", page[0].Body, page[1].Body)
		}
		if env.Meta.Pagination == nil || !env.Meta.Pagination.HasMore || env.Meta.Pagination.NextCursor == "" {
			t.Fatalf("pagination meta = %+v, want a next cursor", env.Meta.Pagination)
		}

		rec, env = ts.do(t, http.MethodGet, messagesPath+"?limit=2&cursor="+env.Meta.Pagination.NextCursor, token, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("second page: status = %d", rec.Code)
		}
		decodeData(t, env, &page)
		if len(page) != 1 || page[0].Body != "hi" {
			t.Errorf("second page = %+v, want just the oldest message", page)
		}
	})

	t.Run("blank body", func(t *testing.T) {
		rec, _ := ts.do(t, http.MethodPost, messagesPath, token, map[string]interface{}{"body": "   "})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})
}
