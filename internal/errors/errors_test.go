// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	tests := []struct {
		name string
		err  *E
		want string
	}{
		{
			name: "message only",
			err:  New(Decode, "missing user"),
			want: "decode: missing user",
		},
		{
			name: "wrapped with message",
			err:  Wrap(Storage, "save session", io.ErrUnexpectedEOF),
			want: "storage: save session: unexpected EOF",
		},
		{
			name: "wrapped without message",
			err:  Wrap(Network, "", io.EOF),
			want: "network: EOF",
		},
		{
			name: "rejected",
			err:  Rejected(401, "Invalid credentials"),
			want: "authentication: Invalid credentials",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestKindMatching(t *testing.T) {
	base := Wrap(Storage, "save session", io.ErrClosedPipe)
	wrapped := fmt.Errorf("login: %w", base)

	assert.True(t, stderrors.Is(wrapped, New(Storage, "")))
	assert.False(t, stderrors.Is(wrapped, New(Authentication, "")))
	assert.True(t, stderrors.Is(wrapped, io.ErrClosedPipe))
	assert.Equal(t, Storage, KindOf(wrapped))
	assert.True(t, IsKind(wrapped, Storage))
	assert.False(t, IsKind(nil, Storage))
	assert.Equal(t, Kind(""), KindOf(io.EOF))

	var e *E
	require.True(t, stderrors.As(wrapped, &e))
	assert.Equal(t, "save session", e.Message)
}
