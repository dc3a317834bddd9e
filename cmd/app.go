// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"os"
	"path/filepath"

	"mg/cli/internal/auth"
	"mg/cli/internal/backend"
	"mg/cli/internal/config"
	apperrors "mg/cli/internal/errors"
	"mg/cli/internal/keychain"
	"mg/cli/internal/logging"
	"mg/cli/internal/session"
	"mg/cli/internal/xdg"

	"github.com/rs/zerolog"
)

// app bundles the dependencies a command needs.
type app struct {
	cfg  config.Config
	log  zerolog.Logger
	auth *auth.Service
}

// loadSettings reads configuration, applies root flags and builds the logger.
func loadSettings() (config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, zerolog.Nop(), apperrors.Wrap(apperrors.Configuration, "load config", err)
	}
	if baseURLFlag != "" {
		cfg.BaseURL = baseURLFlag
	}

	level := cfg.LogLevel
	if verbose || logging.Verbose() {
		level = "debug"
	}
	return cfg, logging.New(os.Stderr, level), nil
}

// newApp wires keychain, session store, backend client and auth service.
func newApp() (*app, error) {
	cfg, log, err := loadSettings()
	if err != nil {
		return nil, err
	}

	fileDir := cfg.Keyring.FileDir
	if fileDir == "" && cfg.Keyring.Backend == keychain.BackendFile {
		dir, err := xdg.StateDir()
		if err != nil {
			return nil, apperrors.Wrap(apperrors.Storage, "resolve state dir", err)
		}
		fileDir = filepath.Join(dir, "keyring")
	}
	km, err := keychain.Open(keychain.Options{
		Backend:      cfg.Keyring.Backend,
		FileDir:      fileDir,
		FilePassword: cfg.Keyring.Password,
	}, log)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Storage, "open keychain", err)
	}

	be := backend.New(cfg.BaseURL, backend.Options{
		Timeout:   cfg.RequestTimeout,
		UserAgent: "mg-cli/" + Version,
		Logger:    log,
	})
	log.Debug().Str("base_url", cfg.BaseURL).Str("keyring", cfg.Keyring.Backend).Msg("app ready")

	return &app{
		cfg:  cfg,
		log:  log,
		auth: auth.NewService(be, session.NewStore(km, log), log),
	}, nil
}

// setup builds the app; a failure is presented and reported as errReported.
func setup() (*app, error) {
	a, err := newApp()
	if err != nil {
		logging.PresentFailure("setup", err)
		return nil, errReported
	}
	return a, nil
}
