// Finplay - Desktop Media Client Core for Jellyfin
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finplay

package accounts

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/finplay/internal/models"
)

// Key layout
const (
	accountKeyPrefix = "account:"
	currentKey       = "current"
	deviceIDKey      = "device:id"
)

var (
	// ErrNoAccount is returned when no account is signed in.
	ErrNoAccount = errors.New("no account signed in")

	// ErrAccountNotFound is returned by Delete for an unknown key.
	ErrAccountNotFound = errors.New("account not found")
)

// Store persists signed-in accounts and the installation's device id in
// BadgerDB.
type Store struct {
	db *badger.DB
}

// Open opens or creates the store at path. An empty path keeps everything
// in memory.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	} else {
		opts.ValueLogFileSize = 16 << 20
		opts.SyncWrites = true
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open account store: %w", err)
	}
	return &Store{db: db}, nil
}

// NewFromDB wraps an already open database.
func NewFromDB(db *badger.DB) *Store {
	return &Store{db: db}
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func accountKey(key string) []byte {
	return []byte(accountKeyPrefix + key)
}

// Save stores account and makes it the current one.
func (s *Store) Save(_ context.Context, account *models.Account) error {
	if account == nil || account.ServerID == "" || account.UserID == "" {
		return errors.New("account needs a server id and user id")
	}
	data, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("marshal account: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(accountKey(account.Key()), data); err != nil {
			return fmt.Errorf("set account: %w", err)
		}
		if err := txn.Set([]byte(currentKey), []byte(account.Key())); err != nil {
			return fmt.Errorf("set current account: %w", err)
		}
		return nil
	})
}

// Current returns the signed-in account or ErrNoAccount.
func (s *Store) Current(_ context.Context) (*models.Account, error) {
	var account models.Account
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(currentKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNoAccount
		}
		if err != nil {
			return fmt.Errorf("get current account: %w", err)
		}
		key, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}

		item, err = txn.Get(accountKey(string(key)))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNoAccount
		}
		if err != nil {
			return fmt.Errorf("get account: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &account)
		})
	})
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// List returns every stored account ordered by server name, then user name.
func (s *Store) List(_ context.Context) ([]*models.Account, error) {
	var accounts []*models.Account
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(accountKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var account models.Account
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &account)
			}); err != nil {
				return fmt.Errorf("decode account %s: %w", it.Item().Key(), err)
			}
			accounts = append(accounts, &account)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	sort.SliceStable(accounts, func(i, j int) bool {
		if accounts[i].ServerName != accounts[j].ServerName {
			return accounts[i].ServerName < accounts[j].ServerName
		}
		return accounts[i].UserName < accounts[j].UserName
	})
	return accounts, nil
}

// Delete removes the account with the given key and clears the current
// pointer when it referred to that account.
func (s *Store) Delete(_ context.Context, key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(accountKey(key)); errors.Is(err, badger.ErrKeyNotFound) {
			return ErrAccountNotFound
		} else if err != nil {
			return fmt.Errorf("get account: %w", err)
		}
		if err := txn.Delete(accountKey(key)); err != nil {
			return fmt.Errorf("delete account: %w", err)
		}

		item, err := txn.Get([]byte(currentKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get current account: %w", err)
		}
		current, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		if string(current) == key {
			if err := txn.Delete([]byte(currentKey)); err != nil {
				return fmt.Errorf("clear current account: %w", err)
			}
		}
		return nil
	})
}

// SetCurrent switches the current account to an already stored one.
func (s *Store) SetCurrent(_ context.Context, key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(accountKey(key)); errors.Is(err, badger.ErrKeyNotFound) {
			return ErrAccountNotFound
		} else if err != nil {
			return fmt.Errorf("get account: %w", err)
		}
		return txn.Set([]byte(currentKey), []byte(key))
	})
}

// DeviceID returns the installation's device id, generating and storing
// one on first use.
func (s *Store) DeviceID(_ context.Context) (string, error) {
	var id string
	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(deviceIDKey))
		if err == nil {
			val, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			id = string(val)
			return nil
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		id = uuid.NewString()
		return txn.Set([]byte(deviceIDKey), []byte(id))
	})
	if err != nil {
		return "", fmt.Errorf("device id: %w", err)
	}
	return id, nil
}
