// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"os"

	"mg/cli/internal/httperrors"
	"mg/cli/internal/logging"
	"mg/cli/internal/session"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	loginEmail    string
	loginPassword string
	loginForce    bool
)

// loginCmd exchanges email and password for a session and stores it in the keychain.
// A successful login replaces any session already stored.
var loginCmd = &cobra.Command{
	Use:     "login",
	Aliases: []string{"signin"},
	Short:   "Sign in with email and password",
	Long: `The login command sends your email and password to the auth service and stores
the returned session in the OS keychain. Missing values are prompted for; the
password is read without echo when running in a terminal.

If a session is already stored the command reports it and exits, unless --force
is given, in which case the new session replaces the old one.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}

		if !loginForce {
			u, err := a.auth.CurrentUser()
			if err != nil {
				logging.PresentFailure("read session", err)
				return errReported
			}
			if u != nil {
				pterm.Info.Printfln("Already logged in as %s", u.Email)
				pterm.Println("   Run 'mg logout' first, or pass --force to sign in again.")
				return nil
			}
		}

		creds := credentials{Email: loginEmail, Password: loginPassword}
		if err := promptCredentials(&creds, false); err != nil {
			pterm.Error.Printfln("Email and password are required (%v)", err)
			return errReported
		}

		var sess session.Session
		err = withSpinner(os.Stderr, "Signing in", func() error {
			var loginErr error
			sess, loginErr = a.auth.Login(cmd.Context(), creds.Email, creds.Password)
			return loginErr
		})
		if err != nil {
			httperrors.Present(err, logging.OpLogin, a.cfg.BaseURL)
			return errReported
		}

		pterm.Success.Println(loginGreeting(sess))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email (prompted when empty)")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password (prompted when empty)")
	loginCmd.Flags().BoolVar(&loginForce, "force", false, "Sign in even when a session is already stored")
}
