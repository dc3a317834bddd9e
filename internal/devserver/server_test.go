// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package devserver

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	s := New(Options{TokenSecret: testSecret, BcryptCost: bcrypt.MinCost, Logger: zerolog.Nop()})
	_, err := s.AddUser("Demo User", "demo@example.com", "demo-password")
	require.NoError(t, err)

	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return s, srv
}

func post(t *testing.T, url, body string) (int, string) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(raw)
}

func TestLogin(t *testing.T) {
	_, srv := newTestServer(t)

	status, body := post(t, srv.URL+"/api/auth/login", `{"email":"demo@example.com","password":"demo-password"}`)
	require.Equal(t, http.StatusOK, status)

	var resp struct {
		Message string `json:"message"`
		User    struct {
			ID     string  `json:"id"`
			Email  string  `json:"email"`
			Name   string  `json:"name"`
			Avatar *string `json:"avatar"`
		} `json:"user"`
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	assert.Equal(t, "demo@example.com", resp.User.Email)
	assert.Equal(t, "Demo User", resp.User.Name)
	assert.Nil(t, resp.User.Avatar)
	assert.NotEmpty(t, resp.User.ID)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Contains(t, body, `"avatar":null`)

	claims := &jwt.RegisteredClaims{}
	tok, err := jwt.ParseWithClaims(resp.AccessToken, claims, func(*jwt.Token) (any, error) {
		return []byte(testSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)
	assert.True(t, tok.Valid)
	assert.Equal(t, resp.User.ID, claims.Subject)
}

func TestLoginErrors(t *testing.T) {
	_, srv := newTestServer(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "wrong password",
			body:       `{"email":"demo@example.com","password":"nope"}`,
			wantStatus: http.StatusUnauthorized,
			wantBody:   "Invalid credentials",
		},
		{
			name:       "unknown user",
			body:       `{"email":"ghost@example.com","password":"demo-password"}`,
			wantStatus: http.StatusUnauthorized,
			wantBody:   "Invalid credentials",
		},
		{
			name:       "missing fields",
			body:       `{"email":"demo@example.com"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   "Email and password are required",
		},
		{
			name:       "malformed json",
			body:       `{`,
			wantStatus: http.StatusBadRequest,
			wantBody:   "Invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := post(t, srv.URL+"/api/auth/login", tt.body)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantBody, body)
		})
	}
}

func TestLoginIsCaseInsensitiveOnEmail(t *testing.T) {
	_, srv := newTestServer(t)

	status, _ := post(t, srv.URL+"/api/auth/login", `{"email":"Demo@Example.com","password":"demo-password"}`)
	assert.Equal(t, http.StatusOK, status)
}

func TestRegister(t *testing.T) {
	_, srv := newTestServer(t)

	status, body := post(t, srv.URL+"/api/auth/register", `{"email":"new@example.com","password":"pw","name":"New"}`)
	require.Equal(t, http.StatusCreated, status)
	assert.Contains(t, body, `"email":"new@example.com"`)
	assert.NotContains(t, body, "accessToken")

	status, _ = post(t, srv.URL+"/api/auth/login", `{"email":"new@example.com","password":"pw"}`)
	assert.Equal(t, http.StatusOK, status)

	status, body = post(t, srv.URL+"/api/auth/register", `{"email":"new@example.com","password":"pw","name":"New"}`)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "User already exists", body)

	status, _ = post(t, srv.URL+"/api/auth/register", `{"email":"x@example.com","password":"pw","name":"  "}`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAddUserDuplicate(t *testing.T) {
	s, _ := newTestServer(t)

	_, err := s.AddUser("Other", "DEMO@example.com", "pw")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestCustomPrefixAndMethod(t *testing.T) {
	s := New(Options{Prefix: "auth/", TokenSecret: testSecret, BcryptCost: bcrypt.MinCost, Logger: zerolog.Nop()})
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	status, _ := post(t, srv.URL+"/auth/login", `{"email":"a@b.c","password":"x"}`)
	assert.Equal(t, http.StatusUnauthorized, status)

	resp, err := http.Get(srv.URL + "/auth/login")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
