// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"mg/cli/internal/logging"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// statusCmd reports whether a session is stored. It exits non-zero when logged out
// so scripts can branch on it.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether a session is stored",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}

		ok, err := a.auth.IsLoggedIn()
		if err != nil {
			logging.PresentFailure("status", err)
			return errReported
		}
		if !ok {
			printNotLoggedIn()
			return errReported
		}

		u, err := a.auth.CurrentUser()
		if err != nil || u == nil {
			fmt.Println("Logged in")
			return nil
		}
		pterm.Success.Printfln("Logged in as %s (%s)", u.Name, u.Email)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
