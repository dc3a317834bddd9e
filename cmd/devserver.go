// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"mg/cli/internal/devserver"
	"mg/cli/internal/logging"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var devserverAddr string

// devserverCmd runs the in-memory auth service locally, seeded with the demo user.
var devserverCmd = &cobra.Command{
	Use:   "devserver",
	Short: "Run a local auth service for development",
	Long: `The devserver command serves POST /api/auth/login and POST /api/auth/register on
the configured address, matching the wire format of the real auth service. Accounts
are kept in memory and lost on exit. The demo user from the devserver config section
is created at start. Stop with Ctrl+C.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadSettings()
		if err != nil {
			logging.PresentFailure("devserver", err)
			return errReported
		}
		dc := cfg.DevServer
		if devserverAddr != "" {
			dc.Addr = devserverAddr
		}
		// Request logs are written at info level.
		if log.GetLevel() > zerolog.InfoLevel {
			log = log.Level(zerolog.InfoLevel)
		}

		srv := devserver.New(devserver.Options{TokenSecret: dc.TokenSecret, Logger: log})
		if dc.Email != "" {
			if _, err := srv.AddUser(dc.Name, dc.Email, dc.Password); err != nil {
				return fmt.Errorf("seed demo user: %w", err)
			}
		}

		pterm.Info.Printfln("Auth service on http://%s%s", dc.Addr, devserver.DefaultPrefix)
		if dc.Email != "" {
			pterm.Println("   Demo user: " + dc.Email)
		}
		return srv.ListenAndServe(cmd.Context(), dc.Addr)
	},
}

func init() {
	rootCmd.AddCommand(devserverCmd)
	devserverCmd.Flags().StringVar(&devserverAddr, "addr", "", "Listen address (default from config)")
}
