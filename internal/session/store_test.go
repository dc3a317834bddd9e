// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	apperrors "mg/cli/internal/errors"
	"mg/cli/internal/keychain"

	"github.com/99designs/keyring"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore() *Store {
	return NewStore(keychain.NewWithKeyring(keyring.NewArrayKeyring(nil), zerolog.Nop()), zerolog.Nop())
}

func strPtr(s string) *string { return &s }

func sessionA() Session {
	return Session{
		UserID:       "u1",
		Email:        "user@example.com",
		Name:         "Jane",
		Avatar:       strPtr("https://example.com/jane.png"),
		AccessToken:  "tok-a",
		RefreshToken: "tok-r",
		CreatedAt:    time.Date(2025, 10, 9, 12, 0, 0, 0, time.UTC),
	}
}

func sessionB() Session {
	return Session{
		UserID:       "u2",
		Email:        "other@example.com",
		Name:         "John",
		AccessToken:  "tok-b",
		RefreshToken: "tok-s",
		CreatedAt:    time.Date(2025, 10, 10, 8, 30, 0, 0, time.UTC),
	}
}

// requireSameSession compares sessions field by field; CreatedAt by instant.
func requireSameSession(t *testing.T, want Session, got *Session) {
	t.Helper()
	require.NotNil(t, got)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt), "createdAt %v != %v", want.CreatedAt, got.CreatedAt)
	w, g := want, *got
	w.CreatedAt, g.CreatedAt = time.Time{}, time.Time{}
	assert.Equal(t, w, g)
}

func TestStoreEmpty(t *testing.T) {
	st := newTestStore()

	got, err := st.Get()
	require.NoError(t, err)
	assert.Nil(t, got)

	ok, err := st.Exists()
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, st.Delete())
	ok, err = st.Exists()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStoreRoundTrip(t *testing.T) {
	st := newTestStore()
	want := sessionA()

	require.NoError(t, st.Save(want))

	got, err := st.Get()
	require.NoError(t, err)
	requireSameSession(t, want, got)

	ok, err := st.Exists()
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStoreStampsCreatedAt(t *testing.T) {
	st := newTestStore()
	fixed := time.Date(2025, 10, 14, 9, 0, 0, 0, time.UTC)
	st.now = func() time.Time { return fixed }

	s := sessionB()
	s.CreatedAt = time.Time{}
	require.NoError(t, st.Save(s))

	got, err := st.Get()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, fixed.Equal(got.CreatedAt))
}

func TestStoreReplace(t *testing.T) {
	st := newTestStore()

	require.NoError(t, st.Save(sessionA()))
	require.NoError(t, st.Save(sessionB()))

	got, err := st.Get()
	require.NoError(t, err)
	requireSameSession(t, sessionB(), got)
	assert.Nil(t, got.Avatar, "avatar from the replaced session must not leak")
}

func TestStoreDelete(t *testing.T) {
	st := newTestStore()
	require.NoError(t, st.Save(sessionA()))
	require.NoError(t, st.Delete())

	got, err := st.Get()
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStoreConcurrentReplaceNeverEmpty(t *testing.T) {
	st := newTestStore()
	require.NoError(t, st.Save(sessionA()))

	a, b := sessionA(), sessionB()
	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			next := a
			if i%2 == 0 {
				next = b
			}
			assert.NoError(t, st.Save(next))
		}
		close(stop)
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				got, err := st.Get()
				if !assert.NoError(t, err) || !assert.NotNil(t, got) {
					return
				}
				switch got.UserID {
				case a.UserID:
					assert.Equal(t, a.AccessToken, got.AccessToken)
				case b.UserID:
					assert.Equal(t, b.AccessToken, got.AccessToken)
				default:
					t.Errorf("unexpected session %q", got.UserID)
					return
				}
			}
		}()
	}
	wg.Wait()
}

type failingKeychain struct{ err error }

func (f failingKeychain) Set(string, []byte) error   { return f.err }
func (f failingKeychain) Get(string) ([]byte, error) { return nil, f.err }
func (f failingKeychain) Remove(string) error        { return f.err }

func TestStoreSurfacesStorageErrors(t *testing.T) {
	boom := errors.New("keychain locked")
	st := NewStore(failingKeychain{err: boom}, zerolog.Nop())

	tests := []struct {
		name string
		call func() error
	}{
		{name: "save", call: func() error { return st.Save(sessionA()) }},
		{name: "get", call: func() error { _, err := st.Get(); return err }},
		{name: "exists", call: func() error { _, err := st.Exists(); return err }},
		{name: "delete", call: st.Delete},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.Error(t, err)
			assert.True(t, apperrors.IsKind(err, apperrors.Storage))
			assert.True(t, errors.Is(err, boom))
		})
	}
}

func TestStoreCorruptRecord(t *testing.T) {
	kc := keychain.NewWithKeyring(keyring.NewArrayKeyring(nil), zerolog.Nop())
	require.NoError(t, kc.Set(Key, []byte("not json")))

	_, err := NewStore(kc, zerolog.Nop()).Get()
	assert.True(t, apperrors.IsKind(err, apperrors.Storage))
}

func TestSessionUserStripsTokens(t *testing.T) {
	s := sessionA()
	u := s.User()
	assert.Equal(t, User{ID: "u1", Email: "user@example.com", Name: "Jane", Avatar: strPtr("https://example.com/jane.png")}, u)

	*u.Avatar = "changed"
	assert.Equal(t, "https://example.com/jane.png", *s.Avatar)
}
