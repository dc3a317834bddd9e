// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"mg/cli/internal/backend"
	"mg/cli/internal/config"
	"mg/cli/internal/logging"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// configCmd groups configuration subcommands.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change CLI configuration",
}

// configShowCmd prints the effective configuration after file, .env and environment overrides.
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadSettings()
		if err != nil {
			logging.PresentFailure("config", err)
			return errReported
		}
		path, err := config.Path()
		if err != nil {
			return err
		}

		out, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		pterm.Println(pterm.NewStyle(pterm.FgLightCyan).Sprint("→ File: ") + path)
		pterm.Println()
		fmt.Fprint(cmd.OutOrStdout(), logging.Mask(string(out)))
		return nil
	},
}

// configSetBaseURLCmd validates and persists a new auth service base URL.
var configSetBaseURLCmd = &cobra.Command{
	Use:   "set-base-url URL",
	Short: "Set the auth service base URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := backend.ValidateBaseURL(args[0]); err != nil {
			logging.PresentFailure("config", err)
			return errReported
		}

		// Persist file values only; environment overrides stay out of the file.
		path, err := config.Path()
		if err != nil {
			return err
		}
		cfg, err := config.ReadFile(path)
		if err != nil {
			return err
		}
		cfg.BaseURL = args[0]
		if err := config.SaveFile(path, cfg); err != nil {
			return err
		}
		pterm.Success.Printfln("base_url set to %s", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configSetBaseURLCmd)
}
