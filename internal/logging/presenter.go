// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	stderrors "errors"
	"fmt"
	"strings"

	apperrors "mg/cli/internal/errors"

	"github.com/pterm/pterm"
)

// PresentError formats an error for user display with masking.
func PresentError(context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Mask(err.Error())
	}
	return fmt.Sprintf("%s: %s", context, Mask(err.Error()))
}

// OpLogin names the login operation; storage failures during it mean the
// credentials were accepted but the session was lost.
const OpLogin = "login"

// FormatFailure renders a session-core error raised by op as a titled, multi-line
// explanation with a suggested next step. Network failures are presented by
// internal/httperrors.
func FormatFailure(op string, err error) string {
	var builder strings.Builder

	switch apperrors.KindOf(err) {
	case apperrors.Authentication:
		builder.WriteString(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint("Login rejected"))
		builder.WriteString("\n\n")
		builder.WriteString("The server did not accept these credentials.\n")
		builder.WriteString(serverMessage(err))
		builder.WriteString("\n")
		builder.WriteString(pterm.NewStyle(pterm.FgYellow).Sprint("→ Check your email and password and run 'mg login' again"))

	case apperrors.Storage:
		if op == OpLogin {
			builder.WriteString(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint("Session not saved"))
			builder.WriteString("\n\n")
			builder.WriteString("Your credentials were accepted, but the session could not be stored\n")
		} else {
			builder.WriteString(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint("Keychain unavailable"))
			builder.WriteString("\n\n")
			builder.WriteString("The session stored on this machine could not be accessed\n")
		}
		builder.WriteString("in the system keychain. This usually means:\n")
		builder.WriteString("  • The keychain is locked or unavailable\n")
		builder.WriteString("  • The configured keyring backend is not installed\n")
		builder.WriteString("\n")
		builder.WriteString(pterm.NewStyle(pterm.FgYellow).Sprint("→ Unlock your keychain or set keyring.backend in 'mg config show'"))

	case apperrors.Decode:
		builder.WriteString(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint("Unexpected response"))
		builder.WriteString("\n\n")
		builder.WriteString("The auth service answered, but not in the expected format.\n")
		builder.WriteString("Make sure base_url points at the auth API, not a web page.\n")
		builder.WriteString("\n")
		builder.WriteString(pterm.NewStyle(pterm.FgYellow).Sprint("→ Run 'mg config show' to review the endpoint"))

	case apperrors.Configuration:
		builder.WriteString(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint("Invalid configuration"))
		builder.WriteString("\n\n")
		builder.WriteString("The auth endpoint is not a usable http(s) URL.\n")
		builder.WriteString("\n")
		builder.WriteString(pterm.NewStyle(pterm.FgYellow).Sprint("→ Run 'mg config set-base-url <url>'"))

	default:
		builder.WriteString(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint("Request failed"))
		builder.WriteString("\n")
	}

	builder.WriteString("\n")
	if err != nil {
		builder.WriteString("\n")
		builder.WriteString(pterm.NewStyle(pterm.FgGray).Sprint("Technical details: " + PresentError("", err)))
	}
	return builder.String()
}

// PresentFailure prints FormatFailure surrounded by blank lines.
func PresentFailure(op string, err error) {
	pterm.Println()
	pterm.Println(FormatFailure(op, err))
	pterm.Println()
}

func serverMessage(err error) string {
	var e *apperrors.E
	if !stderrors.As(err, &e) || strings.TrimSpace(e.Message) == "" {
		return ""
	}
	return fmt.Sprintf("Server said: %s\n", strings.TrimSpace(e.Message))
}
