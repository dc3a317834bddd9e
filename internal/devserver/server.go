// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package devserver is a local stand-in for the remote auth service.
// It speaks the same wire format as production: POST {prefix}/login and
// POST {prefix}/register with JSON bodies, plain-text error bodies, HS256 JWT
// access tokens and opaque refresh tokens. Users live in memory only.
package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// DefaultPrefix matches the path of the default base URL.
const DefaultPrefix = "/api/auth"

// ErrUserExists is returned when registering an email twice.
var ErrUserExists = errors.New("user already exists")

// Options configures a Server.
type Options struct {
	// Prefix under which the endpoints are mounted; empty means DefaultPrefix.
	Prefix string
	// TokenSecret signs access tokens; empty means a random per-process secret.
	TokenSecret string
	// TokenTTL is written into the access token's exp claim; zero means one hour.
	TokenTTL time.Duration
	// BcryptCost for stored password hashes; zero means bcrypt.DefaultCost.
	BcryptCost int
	Logger     zerolog.Logger
}

// User is an account known to the server.
type User struct {
	ID     string  `json:"id"`
	Email  string  `json:"email"`
	Name   string  `json:"name"`
	Avatar *string `json:"avatar"`
}

type account struct {
	User
	hash []byte
}

// Server holds the in-memory accounts and serves the auth endpoints.
type Server struct {
	mu     sync.RWMutex
	users  map[string]*account // by lowercased email
	prefix string
	secret []byte
	ttl    time.Duration
	cost   int
	now    func() time.Time
	log    zerolog.Logger
}

// New creates an empty Server.
func New(opts Options) *Server {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	ttl := opts.TokenTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	secret := opts.TokenSecret
	if secret == "" {
		secret = uuid.NewString()
	}
	cost := opts.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Server{
		users:  make(map[string]*account),
		prefix: "/" + strings.Trim(prefix, "/"),
		secret: []byte(secret),
		ttl:    ttl,
		cost:   cost,
		now:    time.Now,
		log:    opts.Logger,
	}
}

// AddUser registers an account with a bcrypt-hashed password.
func (s *Server) AddUser(name, email, password string) (User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return User{}, err
	}

	key := strings.ToLower(strings.TrimSpace(email))
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[key]; ok {
		return User{}, ErrUserExists
	}
	acc := &account{
		User: User{ID: uuid.NewString(), Email: strings.TrimSpace(email), Name: name},
		hash: hash,
	}
	s.users[key] = acc
	return acc.User, nil
}

// authenticate returns the account for matching credentials.
func (s *Server) authenticate(email, password string) (User, bool) {
	s.mu.RLock()
	acc, ok := s.users[strings.ToLower(strings.TrimSpace(email))]
	s.mu.RUnlock()
	if !ok {
		return User{}, false
	}
	if bcrypt.CompareHashAndPassword(acc.hash, []byte(password)) != nil {
		return User{}, false
	}
	return acc.User, true
}

// issueAccessToken mints a signed JWT for u.
func (s *Server) issueAccessToken(u User) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Issuer:    "mg-devserver",
		Subject:   u.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		ID:        uuid.NewString(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Handler returns the chi router serving the auth endpoints.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Route(s.prefix, func(r chi.Router) {
		r.Post("/login", s.handleLogin)
		r.Post("/register", s.handleRegister)
	})
	return r
}

// ListenAndServe serves Handler on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Str("prefix", s.prefix).Msg("devserver listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("client_request_id", r.Header.Get("X-Request-ID")).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginResponse struct {
	Message      string `json:"message"`
	User         User   `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type registerResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		writeText(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeText(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	u, ok := s.authenticate(req.Email, req.Password)
	if !ok {
		writeText(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	token, err := s.issueAccessToken(u)
	if err != nil {
		s.log.Error().Err(err).Msg("sign access token")
		writeText(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{
		Message:      "Login successful",
		User:         u,
		AccessToken:  token,
		RefreshToken: uuid.NewString(),
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(r, &req); err != nil {
		writeText(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" || strings.TrimSpace(req.Name) == "" {
		writeText(w, http.StatusBadRequest, "Name, email and password are required")
		return
	}

	u, err := s.AddUser(strings.TrimSpace(req.Name), req.Email, req.Password)
	if errors.Is(err, ErrUserExists) {
		writeText(w, http.StatusConflict, "User already exists")
		return
	}
	if err != nil {
		s.log.Error().Err(err).Msg("register user")
		writeText(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusCreated, registerResponse{Message: "User registered successfully", User: u})
}

func decode(r *http.Request, v any) error {
	return json.NewDecoder(io.LimitReader(r.Body, 1<<16)).Decode(v)
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, msg)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
