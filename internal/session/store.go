// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package session

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	apperrors "mg/cli/internal/errors"
	"mg/cli/internal/keychain"

	"github.com/rs/zerolog"
)

// Key is the keychain item holding the single session record.
const Key = "session"

// Keychain is the item storage a Store persists into. *keychain.Manager implements it.
// Get must return keychain.ErrNotFound for a missing item.
type Keychain interface {
	Set(key string, data []byte) error
	Get(key string) ([]byte, error)
	Remove(key string) error
}

// Store is durable single-record persistence for the current session.
// Save and Delete are serialized with each other; Get and Exists may run
// concurrently but never observe a replacement in progress.
type Store struct {
	mu  sync.RWMutex
	kc  Keychain
	now func() time.Time
	log zerolog.Logger
}

// NewStore creates a Store over kc.
func NewStore(kc Keychain, log zerolog.Logger) *Store {
	return &Store{kc: kc, now: time.Now, log: log}
}

// Save removes any existing record and stores s in its place.
// CreatedAt is stamped with the current time when the caller left it zero.
func (st *Store) Save(s Session) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = st.now()
	}
	data, err := json.Marshal(s)
	if err != nil {
		return apperrors.Wrap(apperrors.Storage, "encode session", err)
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if err := st.kc.Remove(Key); err != nil {
		return apperrors.Wrap(apperrors.Storage, "remove previous session", err)
	}
	if err := st.kc.Set(Key, data); err != nil {
		return apperrors.Wrap(apperrors.Storage, "save session", err)
	}
	st.log.Debug().Str("user_id", s.UserID).Msg("session saved")
	return nil
}

// Get returns the stored session, or nil when there is none.
func (st *Store) Get() (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.load()
}

// Exists reports whether a session is stored.
func (st *Store) Exists() (bool, error) {
	s, err := st.Get()
	if err != nil {
		return false, err
	}
	return s != nil, nil
}

// Delete removes the stored session. Deleting when nothing is stored is a no-op.
func (st *Store) Delete() error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if err := st.kc.Remove(Key); err != nil {
		return apperrors.Wrap(apperrors.Storage, "delete session", err)
	}
	st.log.Debug().Msg("session deleted")
	return nil
}

func (st *Store) load() (*Session, error) {
	data, err := st.kc.Get(Key)
	if errors.Is(err, keychain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Storage, "load session", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, apperrors.Wrap(apperrors.Storage, "decode stored session", err)
	}
	return &s, nil
}
