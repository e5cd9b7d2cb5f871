// Roomatch - Roommate Compatibility Matching Service
// Copyright 2026 The Roomatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/roomatch/roomatch

package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/roomatch/roomatch/internal/models"
)

// messageKey builds the storage key for a message. The zero-padded
// nanosecond timestamp keeps per-thread keys in chronological order;
// the message ID breaks same-nanosecond ties.
func messageKey(threadID string, ts time.Time, messageID string) []byte {
	return []byte(fmt.Sprintf("%s%s:%020d:%s", messageKeyPrefix, threadID, ts.UnixNano(), messageID))
}

// CreateOrGetThread returns the unique thread for a pair, creating it
// if none exists. The second return reports whether it was created.
func (s *Store) CreateOrGetThread(ctx context.Context, userA, userB string) (*models.Thread, bool, error) {
	var (
		thread  models.Thread
		created bool
	)
	pairKey := []byte(threadPairKeyPrefix + pairSuffix(userA, userB))

	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(pairKey)
		if err == nil {
			var id string
			if err := item.Value(func(val []byte) error {
				id = string(val)
				return nil
			}); err != nil {
				return fmt.Errorf("read pair index: %w", err)
			}
			return getThreadTxn(txn, id, &thread)
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("get pair index: %w", err)
		}

		now := time.Now().UTC()
		lo, hi := sortPair(userA, userB)
		thread = models.Thread{
			ID:            uuid.NewString(),
			UserAID:       lo,
			UserBID:       hi,
			CreatedAt:     now,
			LastMessageAt: now,
		}
		created = true

		data, err := json.Marshal(&thread)
		if err != nil {
			return fmt.Errorf("marshal thread: %w", err)
		}
		if err := txn.Set([]byte(threadKeyPrefix+thread.ID), data); err != nil {
			return fmt.Errorf("set thread: %w", err)
		}
		if err := txn.Set(pairKey, []byte(thread.ID)); err != nil {
			return fmt.Errorf("set pair index: %w", err)
		}
		for _, uid := range []string{lo, hi} {
			key := []byte(threadUserKeyPrefix + uid + ":" + thread.ID)
			if err := txn.Set(key, []byte(thread.ID)); err != nil {
				return fmt.Errorf("set user index: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &thread, created, nil
}

// GetThread retrieves a thread by ID.
func (s *Store) GetThread(ctx context.Context, id string) (*models.Thread, error) {
	var thread models.Thread

	err := s.db.View(func(txn *badger.Txn) error {
		return getThreadTxn(txn, id, &thread)
	})
	if err != nil {
		return nil, err
	}
	return &thread, nil
}

func getThreadTxn(txn *badger.Txn, id string, out *models.Thread) error {
	item, err := txn.Get([]byte(threadKeyPrefix + id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrThreadNotFound
	}
	if err != nil {
		return fmt.Errorf("get thread: %w", err)
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, out)
	})
}

// ListThreads returns all threads a user participates in, most
// recently active first.
func (s *Store) ListThreads(ctx context.Context, userID string) ([]*models.Thread, error) {
	var threads []*models.Thread

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(threadUserKeyPrefix + userID + ":")
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var id string
			if err := it.Item().Value(func(val []byte) error {
				id = string(val)
				return nil
			}); err != nil {
				return fmt.Errorf("read user index: %w", err)
			}
			var thread models.Thread
			if err := getThreadTxn(txn, id, &thread); err != nil {
				return err
			}
			threads = append(threads, &thread)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(threads, func(i, j int) bool {
		if !threads[i].LastMessageAt.Equal(threads[j].LastMessageAt) {
			return threads[i].LastMessageAt.After(threads[j].LastMessageAt)
		}
		return threads[i].ID < threads[j].ID
	})
	return threads, nil
}

// AppendMessage stores a message and bumps the thread's LastMessageAt
// in the same transaction.
func (s *Store) AppendMessage(ctx context.Context, threadID, senderID, body string) (*models.Message, error) {
	msg := models.Message{
		ID:        uuid.NewString(),
		ThreadID:  threadID,
		SenderID:  senderID,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		var thread models.Thread
		if err := getThreadTxn(txn, threadID, &thread); err != nil {
			return err
		}

		data, err := json.Marshal(&msg)
		if err != nil {
			return fmt.Errorf("marshal message: %w", err)
		}
		if err := txn.Set(messageKey(threadID, msg.CreatedAt, msg.ID), data); err != nil {
			return fmt.Errorf("set message: %w", err)
		}

		thread.LastMessageAt = msg.CreatedAt
		threadData, err := json.Marshal(&thread)
		if err != nil {
			return fmt.Errorf("marshal thread: %w", err)
		}
		return txn.Set([]byte(threadKeyPrefix+thread.ID), threadData)
	})
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListMessages returns one page of a thread's history: the newest
// messages before the cursor, re-ordered oldest first. An empty cursor
// starts from the newest message. NextCursor is set when older
// messages remain; pass it back to page further into history.
func (s *Store) ListMessages(ctx context.Context, threadID, cursor string, limit int) (*models.MessagePage, error) {
	if limit <= 0 {
		return &models.MessagePage{}, nil
	}
	prefix := []byte(messageKeyPrefix + threadID + ":")

	page := &models.MessagePage{}
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse iteration needs a seek key at or beyond the last
		// possible key in the prefix range.
		seek := append(append([]byte{}, prefix...), 0xFF)
		if cursor != "" {
			// Cursor is the key suffix of the oldest message already
			// returned; resume strictly before it.
			seek = append(append([]byte{}, prefix...), []byte(cursor)...)
		}

		it.Seek(seek)
		if cursor != "" && it.Valid() && string(it.Item().Key()) == string(seek) {
			it.Next()
		}

		for ; it.Valid() && len(page.Messages) < limit; it.Next() {
			var msg models.Message
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &msg)
			}); err != nil {
				return fmt.Errorf("decode message %s: %w", it.Item().Key(), err)
			}
			page.Messages = append(page.Messages, msg)
		}

		if it.Valid() && len(page.Messages) > 0 {
			oldest := page.Messages[len(page.Messages)-1]
			page.NextCursor = fmt.Sprintf("%020d:%s", oldest.CreatedAt.UnixNano(), oldest.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Collected newest-first; clients render oldest-first.
	for i, j := 0, len(page.Messages)-1; i < j; i, j = i+1, j-1 {
		page.Messages[i], page.Messages[j] = page.Messages[j], page.Messages[i]
	}
	return page, nil
}
