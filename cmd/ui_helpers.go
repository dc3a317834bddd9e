// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"mg/cli/internal/session"
	"mg/cli/internal/terminal"

	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"
)

var spinnerFrames = []string{"|", "/", "-", "\\"}

// startInlineSpinner draws rotating frames followed by text on a single line of w
// until the returned stop function is called. Stopping clears the line.
func startInlineSpinner(w io.Writer, text string, frames []string, interval time.Duration) func() {
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		i := 0
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			line := fmt.Sprintf("%s %s", frames[i%len(frames)], text)
			select {
			case <-stop:
				// Clear the spinner line completely, then return
				fmt.Fprintf(w, "\r%*s\r", len(line), "")
				return
			case <-ticker.C:
				fmt.Fprintf(w, "\r%s", line)
				i++
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			wg.Wait()
		})
	}
}

// withSpinner runs fn while a spinner with a hidden cursor is shown on stderr.
func withSpinner(w io.Writer, text string, fn func() error) error {
	cursor.Hide()
	defer cursor.Show()
	stop := startInlineSpinner(w, text, spinnerFrames, 120*time.Millisecond)
	defer stop()
	return fn()
}

// credentials are the inputs of login and register.
type credentials struct {
	Name     string
	Email    string
	Password string
}

// prompter is the subset of terminal.Prompter the commands use.
type prompter interface {
	Line(label string) (string, error)
	Secret(label string) (string, error)
}

var _ prompter = (*terminal.Prompter)(nil)

// fillCredentials prompts for every empty field in c and returns the on-screen
// width of each prompt it showed: the label and ": ", plus the answer for echoed
// lines. The name is asked for only when withName is set. All fields must end
// up non-empty.
func fillCredentials(p prompter, c *credentials, withName bool) ([]int, error) {
	var shown []int
	ask := func(label string, read func(string) (string, error), echoed bool, dst *string) error {
		v, err := read(label)
		if err != nil {
			return fmt.Errorf("%s: %w", strings.ToLower(label), err)
		}
		width := utf8.RuneCountInString(label) + 2
		if echoed {
			width += utf8.RuneCountInString(v)
		}
		shown = append(shown, width)
		*dst = v
		return nil
	}

	if withName && strings.TrimSpace(c.Name) == "" {
		if err := ask("Name", p.Line, true, &c.Name); err != nil {
			return shown, err
		}
	}
	if strings.TrimSpace(c.Email) == "" {
		if err := ask("Email", p.Line, true, &c.Email); err != nil {
			return shown, err
		}
	}
	if c.Password == "" {
		if err := ask("Password", p.Secret, false, &c.Password); err != nil {
			return shown, err
		}
	}
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	return shown, nil
}

// promptCredentials fills c from an interactive prompter and clears the answered
// prompts from stderr, where they were shown, so only the result remains.
func promptCredentials(c *credentials, withName bool) error {
	p := terminal.NewPrompter()
	shown, err := fillCredentials(p, c, withName)
	if err != nil {
		return err
	}
	if p.Interactive() {
		for i := len(shown) - 1; i >= 0; i-- {
			terminal.ClearPreviousLines(os.Stderr, shown[i])
		}
	}
	return nil
}

// loginGreeting returns the success line printed after login.
func loginGreeting(s session.Session) string {
	who := s.Name
	if who == "" {
		who = s.Email
	}
	return fmt.Sprintf("Welcome back, %s!", who)
}

// renderUser prints the account box used by whoami.
func renderUser(u session.User) {
	avatar := "none"
	if u.Avatar != nil && *u.Avatar != "" {
		avatar = *u.Avatar
	}
	label := pterm.NewStyle(pterm.FgLightCyan)
	body := strings.Join([]string{
		label.Sprint("Name:   ") + u.Name,
		label.Sprint("Email:  ") + u.Email,
		label.Sprint("Avatar: ") + avatar,
		label.Sprint("ID:     ") + u.ID,
	}, "\n")
	pterm.DefaultBox.WithTitle("Current user").Println(body)
}

func printNotLoggedIn() {
	fmt.Println("🔒 You're not logged in yet!")
	fmt.Println("   Run 'mg login' to get started.")
}
