// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"
	"os"

	apperrors "mg/cli/internal/errors"
	"mg/cli/internal/httperrors"
	"mg/cli/internal/logging"
	"mg/cli/internal/session"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	registerName     string
	registerEmail    string
	registerPassword string
)

// registerCmd creates an account. It does not sign in.
var registerCmd = &cobra.Command{
	Use:     "register",
	Aliases: []string{"signup"},
	Short:   "Create an account",
	Long: `The register command creates an account on the auth service. The stored session,
if any, is left untouched; run 'mg login' afterwards to sign in with the new account.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}

		creds := credentials{Name: registerName, Email: registerEmail, Password: registerPassword}
		if err := promptCredentials(&creds, true); err != nil {
			pterm.Error.Printfln("Name, email and password are required (%v)", err)
			return errReported
		}

		var u session.User
		err = withSpinner(os.Stderr, "Creating account", func() error {
			var regErr error
			u, regErr = a.auth.Register(cmd.Context(), creds.Name, creds.Email, creds.Password)
			return regErr
		})
		var rejected *apperrors.E
		if errors.As(err, &rejected) && rejected.Kind == apperrors.Authentication && rejected.Status < 500 {
			pterm.Error.Printfln("Registration rejected (HTTP %d)", rejected.Status)
			pterm.Println("   Server said: " + logging.Mask(rejected.Message))
			return errReported
		}
		if err != nil {
			httperrors.Present(err, "register", a.cfg.BaseURL)
			return errReported
		}

		pterm.Success.Printfln("Account created for %s", u.Email)
		pterm.Println("   Run 'mg login' to sign in.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
	registerCmd.Flags().StringVar(&registerName, "name", "", "Display name (prompted when empty)")
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "Account email (prompted when empty)")
	registerCmd.Flags().StringVar(&registerPassword, "password", "", "Account password (prompted when empty)")
}
