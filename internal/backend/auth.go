// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"net/http"
	"time"

	apperrors "mg/cli/internal/errors"
	"mg/cli/internal/session"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Required string fields are pointers so a missing key or null is told apart
// from an empty value. Only avatar may be absent or null.
type wireUser struct {
	ID     *string `json:"id"`
	Email  *string `json:"email"`
	Name   *string `json:"name"`
	Avatar *string `json:"avatar"`
}

type loginResponse struct {
	Message      *string   `json:"message"`
	User         *wireUser `json:"user"`
	AccessToken  *string   `json:"accessToken"`
	RefreshToken *string   `json:"refreshToken"`
}

type registerResponse struct {
	Message *string   `json:"message"`
	User    *wireUser `json:"user"`
}

func missing(field string) error {
	return apperrors.New(apperrors.Decode, "response has no "+field)
}

func (u *wireUser) validate() error {
	switch {
	case u == nil:
		return missing("user")
	case u.ID == nil || *u.ID == "":
		return missing("user.id")
	case u.Email == nil:
		return missing("user.email")
	case u.Name == nil:
		return missing("user.name")
	}
	return nil
}

func (u *wireUser) user() session.User {
	return session.User{ID: *u.ID, Email: *u.Email, Name: *u.Name, Avatar: u.Avatar}
}

func (r *loginResponse) session(now time.Time) (session.Session, error) {
	if r.Message == nil {
		return session.Session{}, missing("message")
	}
	if err := r.User.validate(); err != nil {
		return session.Session{}, err
	}
	if r.AccessToken == nil || *r.AccessToken == "" {
		return session.Session{}, missing("accessToken")
	}
	if r.RefreshToken == nil {
		return session.Session{}, missing("refreshToken")
	}
	u := r.User.user()
	return session.Session{
		UserID:       u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Avatar:       u.Avatar,
		AccessToken:  *r.AccessToken,
		RefreshToken: *r.RefreshToken,
		CreatedAt:    now,
	}, nil
}

// Login posts credentials to {baseURL}/login and builds a session from a 200 response.
func (h *HTTP) Login(ctx context.Context, email, password string) (session.Session, error) {
	var out loginResponse
	if err := h.postJSON(ctx, "/login", loginRequest{Email: email, Password: password}, &out, http.StatusOK); err != nil {
		h.log.Debug().Err(err).Str("email", email).Msg("login failed")
		return session.Session{}, err
	}
	s, err := out.session(h.now())
	if err != nil {
		return session.Session{}, err
	}
	h.log.Debug().Str("user_id", s.UserID).Str("message", *out.Message).Msg("login succeeded")
	return s, nil
}

// Register posts a new account to {baseURL}/register and returns the created user.
func (h *HTTP) Register(ctx context.Context, name, email, password string) (session.User, error) {
	var out registerResponse
	body := registerRequest{Email: email, Password: password, Name: name}
	if err := h.postJSON(ctx, "/register", body, &out, http.StatusOK, http.StatusCreated); err != nil {
		h.log.Debug().Err(err).Str("email", email).Msg("register failed")
		return session.User{}, err
	}
	if out.Message == nil {
		return session.User{}, missing("message")
	}
	if err := out.User.validate(); err != nil {
		return session.User{}, err
	}
	return out.User.user(), nil
}
