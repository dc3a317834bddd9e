// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package session defines the persisted session record and the store that owns it.
// The client is single-user: at most one Session exists at any time, and writing a
// new one replaces the old.
package session

import "time"

// Session represents the logged-in user and their credentials.
type Session struct {
	UserID       string    `json:"userId"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Avatar       *string   `json:"avatar,omitempty"`
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	CreatedAt    time.Time `json:"createdAt"`
}

// User is the display view of a Session with tokens stripped.
type User struct {
	ID     string  `json:"id"`
	Email  string  `json:"email"`
	Name   string  `json:"name"`
	Avatar *string `json:"avatar,omitempty"`
}

// User returns the identity fields of s.
func (s Session) User() User {
	u := User{ID: s.UserID, Email: s.Email, Name: s.Name}
	if s.Avatar != nil {
		a := *s.Avatar
		u.Avatar = &a
	}
	return u
}
