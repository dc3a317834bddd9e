// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package backend provides the client for the remote auth service.
// It defines the API contract for exchanging credentials for a session and for
// creating accounts. Every call makes exactly one network attempt; failures are
// reported as typed errors from internal/errors.
package backend

import (
	"context"

	"mg/cli/internal/session"
)

// API defines backend operations the CLI depends on.
// Implementations may call real HTTP endpoints or provide fakes for tests.
type API interface {
	// Login exchanges credentials for a session. CreatedAt is set to the time of the response.
	Login(ctx context.Context, email, password string) (session.Session, error)
	// Register creates an account. It never yields tokens; callers log in afterwards.
	Register(ctx context.Context, name, email, password string) (session.User, error)
}
