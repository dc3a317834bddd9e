// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"mg/cli/internal/session"
	"mg/cli/internal/terminal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedPrompter struct {
	answers []string
	asked   []string
}

func (p *scriptedPrompter) next(label string) (string, error) {
	p.asked = append(p.asked, label)
	if len(p.answers) == 0 {
		return "", terminal.ErrEmptyInput
	}
	a := p.answers[0]
	p.answers = p.answers[1:]
	return a, nil
}

func (p *scriptedPrompter) Line(label string) (string, error)   { return p.next(label) }
func (p *scriptedPrompter) Secret(label string) (string, error) { return p.next(label) }

func TestFillCredentials(t *testing.T) {
	tests := []struct {
		name      string
		in        credentials
		withName  bool
		answers   []string
		want      credentials
		wantAsked []string
		wantShown []int
	}{
		{
			name:      "all from flags",
			in:        credentials{Email: "a@example.com", Password: "pw"},
			want:      credentials{Email: "a@example.com", Password: "pw"},
			wantAsked: nil,
		},
		{
			name:      "prompt for everything",
			answers:   []string{"a@example.com", "pw"},
			want:      credentials{Email: "a@example.com", Password: "pw"},
			wantAsked: []string{"Email", "Password"},
			wantShown: []int{len("Email: a@example.com"), len("Password: ")},
		},
		{
			name:      "register asks for name",
			in:        credentials{Email: " a@example.com "},
			withName:  true,
			answers:   []string{"Jane", "pw"},
			want:      credentials{Name: "Jane", Email: "a@example.com", Password: "pw"},
			wantAsked: []string{"Name", "Password"},
			wantShown: []int{len("Name: Jane"), len("Password: ")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &scriptedPrompter{answers: tt.answers}
			c := tt.in
			shown, err := fillCredentials(p, &c, tt.withName)
			require.NoError(t, err)
			assert.Equal(t, tt.wantShown, shown)
			assert.Equal(t, tt.want, c)
			assert.Equal(t, tt.wantAsked, p.asked)
		})
	}
}

func TestFillCredentialsCountsWrappedAnswer(t *testing.T) {
	email := strings.Repeat("x", 90) + "@example.com"
	c := credentials{Password: "pw"}
	shown, err := fillCredentials(&scriptedPrompter{answers: []string{email}}, &c, false)
	require.NoError(t, err)
	require.Len(t, shown, 1)
	assert.Equal(t, len("Email: ")+len(email), shown[0])
	assert.Greater(t, shown[0], 80)
}

func TestFillCredentialsEmpty(t *testing.T) {
	c := credentials{Email: "a@example.com"}
	_, err := fillCredentials(&scriptedPrompter{}, &c, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, terminal.ErrEmptyInput))
	assert.Contains(t, err.Error(), "password")
}

func TestLoginGreeting(t *testing.T) {
	assert.Equal(t, "Welcome back, Jane!", loginGreeting(session.Session{Name: "Jane", Email: "j@example.com"}))
	assert.Equal(t, "Welcome back, j@example.com!", loginGreeting(session.Session{Email: "j@example.com"}))
}

func TestInlineSpinner(t *testing.T) {
	var buf bytes.Buffer
	stop := startInlineSpinner(&buf, "Signing in", spinnerFrames, 5*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	stop()
	stop() // second call is a no-op

	out := buf.String()
	assert.Contains(t, out, "Signing in")
	assert.True(t, strings.HasSuffix(out, "\r"))
}

func TestCommandTree(t *testing.T) {
	want := []string{"config", "devserver", "login", "logout", "register", "status", "token", "whoami"}
	var got []string
	for _, c := range rootCmd.Commands() {
		if c.Name() == "help" || c.Name() == "completion" {
			continue
		}
		got = append(got, c.Name())
	}
	assert.ElementsMatch(t, want, got)

	c, _, err := rootCmd.Find([]string{"me"})
	require.NoError(t, err)
	assert.Equal(t, "whoami", c.Name())
}
