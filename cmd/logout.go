// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"io"
	"os"

	"mg/cli/internal/logging"

	"github.com/spf13/cobra"
)

// logoutCmd removes the stored session. It succeeds even when no session exists.
var logoutCmd = &cobra.Command{
	Use:     "logout",
	Aliases: []string{"signout"},
	Short:   "Remove the stored session",
	Long: `The logout command deletes the session from the OS keychain. Nothing is sent to
the auth service; tokens already issued stay valid there until they expire.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runLogout(newApp, cmd.OutOrStdout())
	},
}

// runLogout never fails: when the keychain or config cannot be opened the
// problem is logged as a warning and the command still exits zero.
func runLogout(build func() (*app, error), out io.Writer) error {
	a, err := build()
	if err != nil {
		_, log, lerr := loadSettings()
		if lerr != nil {
			log = logging.New(os.Stderr, "warn")
		}
		log.Warn().Err(err).Msg("logout: session store unavailable, nothing removed")
		return nil
	}
	a.auth.Logout()

	fmt.Fprintln(out, "✅ Session removed")
	return nil
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
