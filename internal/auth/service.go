// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package auth provides the session facade consumed by the mg commands.
// It mediates between the auth backend and the session store: login writes a
// session only after the backend accepted the credentials, logout always clears
// local state, and read queries are served from the store alone.
//
// There are two states, "has session" and "has no session". The only way in is a
// successful Login; the only ways out are Logout or deleting the stored record.
// A stored session is treated as valid until logout, even if the server revoked it.
package auth

import (
	"context"

	"mg/cli/internal/backend"
	"mg/cli/internal/session"

	"github.com/rs/zerolog"
)

// Store is the persistence the Service depends on. *session.Store implements it.
type Store interface {
	Save(s session.Session) error
	Get() (*session.Session, error)
	Delete() error
	Exists() (bool, error)
}

// Service centralizes authentication-related operations against the backend
// and local secure storage.
type Service struct {
	be    backend.API
	store Store
	log   zerolog.Logger
}

// NewService constructs an auth Service.
func NewService(be backend.API, store Store, log zerolog.Logger) *Service {
	return &Service{be: be, store: store, log: log}
}

// Login exchanges credentials with the backend and stores the resulting session.
// Backend and storage errors are returned unchanged; nothing is stored on failure.
func (s *Service) Login(ctx context.Context, email, password string) (session.Session, error) {
	sess, err := s.be.Login(ctx, email, password)
	if err != nil {
		return session.Session{}, err
	}
	if err := s.store.Save(sess); err != nil {
		s.log.Warn().Err(err).Str("user_id", sess.UserID).Msg("login accepted but session not saved")
		return session.Session{}, err
	}
	return sess, nil
}

// Register creates an account. It does not log in.
func (s *Service) Register(ctx context.Context, name, email, password string) (session.User, error) {
	return s.be.Register(ctx, name, email, password)
}

// Logout clears the stored session. It never fails from the caller's perspective;
// storage errors are logged.
func (s *Service) Logout() {
	if err := s.store.Delete(); err != nil {
		s.log.Warn().Err(err).Msg("logout: could not delete stored session")
	}
}

// IsLoggedIn reports whether a session is stored. No token validity check is made.
func (s *Service) IsLoggedIn() (bool, error) {
	return s.store.Exists()
}

// CurrentUser returns the stored user without tokens, or nil when logged out.
func (s *Service) CurrentUser() (*session.User, error) {
	sess, err := s.store.Get()
	if err != nil || sess == nil {
		return nil, err
	}
	u := sess.User()
	return &u, nil
}

// AccessToken returns the stored access token; ok is false when logged out.
func (s *Service) AccessToken() (token string, ok bool, err error) {
	sess, err := s.store.Get()
	if err != nil || sess == nil {
		return "", false, err
	}
	return sess.AccessToken, true, nil
}

// RefreshToken returns the stored refresh token; ok is false when logged out.
func (s *Service) RefreshToken() (token string, ok bool, err error) {
	sess, err := s.store.Get()
	if err != nil || sess == nil {
		return "", false, err
	}
	return sess.RefreshToken, true, nil
}
