// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"mg/cli/internal/logging"

	"github.com/spf13/cobra"
)

var tokenRefresh bool

// tokenCmd prints a stored token to stdout for use in scripts.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print the stored access token",
	Long: `The token command prints the stored access token, or the refresh token with
--refresh, followed by a newline. Nothing else is written to stdout, so the output
can be captured directly, e.g. curl -H "Authorization: Bearer $(mg token)".`,

	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}

		get := a.auth.AccessToken
		if tokenRefresh {
			get = a.auth.RefreshToken
		}
		tok, ok, err := get()
		if err != nil {
			logging.PresentFailure("token", err)
			return errReported
		}
		if !ok {
			return fmt.Errorf("not logged in; run 'mg login' first")
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().BoolVar(&tokenRefresh, "refresh", false, "Print the refresh token instead")
}
