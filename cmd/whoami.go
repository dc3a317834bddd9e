// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"mg/cli/internal/logging"

	"github.com/spf13/cobra"
)

// whoamiCmd shows the user of the stored session. It reads local state only.
var whoamiCmd = &cobra.Command{
	Use:     "whoami",
	Aliases: []string{"me"},
	Short:   "Show the signed-in user",
	Long: `The whoami command prints the name, email, avatar and id of the user whose
session is stored on this machine. The auth service is not contacted, so a
session revoked on the server is still shown until 'mg logout'.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}

		u, err := a.auth.CurrentUser()
		if err != nil {
			logging.PresentFailure("whoami", err)
			return errReported
		}
		if u == nil {
			printNotLoggedIn()
			return nil
		}
		renderUser(*u)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
