// Roomatch - Roommate Compatibility Matching Service
// Copyright 2026 The Roomatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/roomatch/roomatch

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/roomatch/roomatch/internal/models"
)

// PutMatch upserts a computed pair score. The record's participant
// order is normalized so both orderings of the same pair collapse to
// one key.
func (s *Store) PutMatch(ctx context.Context, record *models.MatchRecord) error {
	rec := *record
	rec.UserAID, rec.UserBID = sortPair(record.UserAID, record.UserBID)

	data, err := json.Marshal(&rec)
	if err != nil {
		return fmt.Errorf("marshal match record: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(matchKeyPrefix+rec.UserAID+":"+rec.UserBID), data)
	})
}

// GetMatch retrieves the stored score for a pair, in either order.
func (s *Store) GetMatch(ctx context.Context, userA, userB string) (*models.MatchRecord, error) {
	var rec models.MatchRecord

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(matchKeyPrefix + pairSuffix(userA, userB)))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrMatchNotFound
		}
		if err != nil {
			return fmt.Errorf("get match record: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListMatchesSince returns all match records computed at or after the
// cutoff. Admin reporting aggregates over this.
func (s *Store) ListMatchesSince(ctx context.Context, cutoff time.Time) ([]*models.MatchRecord, error) {
	var records []*models.MatchRecord

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(matchKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var rec models.MatchRecord
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return fmt.Errorf("decode match record %s: %w", it.Item().Key(), err)
			}
			if rec.ComputedAt.Before(cutoff) {
				continue
			}
			records = append(records, &rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
