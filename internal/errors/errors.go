// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package errors defines typed errors with categories for user-friendly reporting.
// Every failure produced by the session core carries one of a small set of kinds so
// the command layer can tell "your credentials were wrong" apart from "your credentials
// were fine but we failed to remember you" without string matching.
//
// The package supports wrapping underlying errors while maintaining error kind information.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// Configuration indicates a malformed endpoint or other unusable setting.
	Configuration Kind = "configuration"
	// Network indicates a transport failure (timeout, unreachable host, TLS).
	Network Kind = "network"
	// Authentication indicates the server rejected the request with a non-success status.
	Authentication Kind = "authentication"
	// Decode indicates the response body did not match the expected shape.
	Decode Kind = "decode"
	// Storage indicates a local persistence failure.
	Storage Kind = "storage"
)

// E wraps an error with kind and human-friendly message.
// Status is the HTTP status code for Authentication errors and zero otherwise.
type E struct {
	Kind    Kind
	Message string
	Status  int
	Err     error
}

func (e *E) Error() string {
	switch {
	case e.Err != nil && e.Message != "":
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
}

func (e *E) Unwrap() error { return e.Err }

// Is reports whether target is an *E of the same kind, so errors.Is(err, New(Storage, ""))
// matches any storage failure regardless of message.
func (e *E) Is(target error) bool {
	t, ok := target.(*E)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// Rejected builds an Authentication error carrying the server's message and status.
func Rejected(status int, msg string) *E {
	return &E{Kind: Authentication, Message: msg, Status: status}
}

// KindOf returns the kind of the first *E in err's chain, or "" when there is none.
func KindOf(err error) Kind {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
