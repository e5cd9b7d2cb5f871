// Roomatch - Roommate Compatibility Matching Service
// Copyright 2026 The Roomatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/roomatch/roomatch

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/roomatch/roomatch/internal/models"
)

// CreateUser stores a new user with their password hash. The email
// uniqueness index is written in the same transaction, so a duplicate
// registration fails atomically with ErrEmailTaken.
func (s *Store) CreateUser(ctx context.Context, user *models.User, passwordHash string) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	emailKey := []byte(emailKeyPrefix + normalizeEmail(user.Email))

	return s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(emailKey)
		if err == nil {
			return ErrEmailTaken
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check email index: %w", err)
		}

		if err := txn.Set([]byte(userKeyPrefix+user.ID), data); err != nil {
			return fmt.Errorf("set user: %w", err)
		}
		if err := txn.Set(emailKey, []byte(user.ID)); err != nil {
			return fmt.Errorf("set email index: %w", err)
		}
		if err := txn.Set([]byte(credKeyPrefix+user.ID), []byte(passwordHash)); err != nil {
			return fmt.Errorf("set credentials: %w", err)
		}
		return nil
	})
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(userKeyPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrUserNotFound
		}
		if err != nil {
			return fmt.Errorf("get user: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &user)
		})
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail resolves an email through the uniqueness index.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var id string

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(emailKeyPrefix + normalizeEmail(email)))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrUserNotFound
		}
		if err != nil {
			return fmt.Errorf("get email index: %w", err)
		}
		return item.Value(func(val []byte) error {
			id = string(val)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return s.GetUser(ctx, id)
}

// GetPasswordHash returns the stored bcrypt hash for a user.
func (s *Store) GetPasswordHash(ctx context.Context, userID string) (string, error) {
	var hash string

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(credKeyPrefix + userID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrUserNotFound
		}
		if err != nil {
			return fmt.Errorf("get credentials: %w", err)
		}
		return item.Value(func(val []byte) error {
			hash = string(val)
			return nil
		})
	})
	if err != nil {
		return "", err
	}
	return hash, nil
}

// UpdateUser overwrites an existing user record. The email is treated
// as immutable; changing it requires reindexing and is not supported.
func (s *Store) UpdateUser(ctx context.Context, user *models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		key := []byte(userKeyPrefix + user.ID)
		if _, err := txn.Get(key); errors.Is(err, badger.ErrKeyNotFound) {
			return ErrUserNotFound
		} else if err != nil {
			return fmt.Errorf("get user: %w", err)
		}
		return txn.Set(key, data)
	})
}

// ListUsers returns all users. The candidate pool is small enough that
// the recommendation engine scans it in full.
func (s *Store) ListUsers(ctx context.Context) ([]*models.User, error) {
	var users []*models.User

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(userKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var user models.User
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &user)
			})
			if err != nil {
				return fmt.Errorf("decode user %s: %w", it.Item().Key(), err)
			}
			users = append(users, &user)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

// PutProfile stores a user's lifestyle profile, creating or replacing.
func (s *Store) PutProfile(ctx context.Context, profile *models.LifestyleProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(profileKeyPrefix+profile.UserID), data)
	})
}

// GetProfile retrieves a user's lifestyle profile.
func (s *Store) GetProfile(ctx context.Context, userID string) (*models.LifestyleProfile, error) {
	var profile models.LifestyleProfile

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(profileKeyPrefix + userID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrProfileNotFound
		}
		if err != nil {
			return fmt.Errorf("get profile: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &profile)
		})
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// CountUsers returns the total number of registered users and how many
// have completed their lifestyle profile.
func (s *Store) CountUsers(ctx context.Context) (total, completed int, err error) {
	err = s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(userKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var user models.User
			decErr := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &user)
			})
			if decErr != nil {
				return fmt.Errorf("decode user %s: %w", it.Item().Key(), decErr)
			}
			total++
			if user.ProfileCompleted {
				completed++
			}
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return total, completed, nil
}
