// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain provides centralized, thread-safe keychain operations for mg.
// It manages all interactions with the OS keychain/credential store and exposes a
// minimal item API (Set, Get, Remove) that the session store builds on.
//
// The package supports macOS Keychain, Windows Credential Manager, Secret Service,
// KWallet, pass and the keyring file backend. One Manager is constructed per process
// and handed to its consumers; there is no package-level instance.
package keychain

import (
	"errors"
	"fmt"
	"io/fs"
	"runtime"
	"strings"
	"sync"

	"github.com/99designs/keyring"
	"github.com/rs/zerolog"
)

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "mg"

// ErrNotFound is returned by Get when no item is stored under the key.
var ErrNotFound = errors.New("keychain: item not found")

// Backend names accepted by Options.Backend.
const (
	BackendAuto          = "auto"
	BackendKeychain      = "keychain"
	BackendWinCred       = "wincred"
	BackendSecretService = "secret-service"
	BackendKWallet       = "kwallet"
	BackendPass          = "pass"
	BackendFile          = "file"
)

// Options selects and configures the keyring backend.
type Options struct {
	// Backend is one of the Backend* names; empty means BackendAuto.
	Backend string
	// FileDir is the directory used by the file backend.
	FileDir string
	// FilePassword unlocks the file backend.
	FilePassword string
}

// Manager provides centralized, thread-safe operations for the OS keychain.
type Manager struct {
	mu      sync.RWMutex
	ring    keyring.Keyring
	backend keychainBackend
	log     zerolog.Logger
}

// keychainBackend defines the interface for native keychain operations.
type keychainBackend interface {
	Set(key, value string) error
	Get(key string) (string, error)
	Delete(key string) error
}

// Open creates a Manager for the backend selected by opts.
func Open(opts Options, log zerolog.Logger) (*Manager, error) {
	name := strings.ToLower(strings.TrimSpace(opts.Backend))
	if name == "" {
		name = BackendAuto
	}

	// Try native security backend first on macOS
	if runtime.GOOS == "darwin" && (name == BackendAuto || name == BackendKeychain) {
		backend, err := newSecurityBackend(log)
		if err == nil {
			log.Debug().Str("backend", "security").Msg("keychain opened")
			return &Manager{backend: backend, log: log}, nil
		}
		log.Debug().Err(err).Msg("security command unavailable, falling back to keyring")
	}

	ring, err := openRing(name, opts)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("backend", name).Msg("keychain opened")
	return &Manager{ring: ring, log: log}, nil
}

// NewWithKeyring wraps an already opened keyring, e.g. keyring.NewArrayKeyring in tests.
func NewWithKeyring(ring keyring.Keyring, log zerolog.Logger) *Manager {
	return &Manager{ring: ring, log: log}
}

// openRing opens the OS keyring restricted to the backends allowed for name.
func openRing(name string, opts Options) (keyring.Keyring, error) {
	allowed, err := allowedBackends(name, runtime.GOOS)
	if err != nil {
		return nil, err
	}

	cfg := keyring.Config{
		ServiceName:             ServiceName,
		AllowedBackends:         allowed,
		PassPrefix:              ServiceName,
		WinCredPrefix:           ServiceName,
		KWalletAppID:            ServiceName,
		KWalletFolder:           ServiceName,
		LibSecretCollectionName: ServiceName,
		FileDir:                 opts.FileDir,
	}
	for _, b := range allowed {
		if b != keyring.FileBackend {
			continue
		}
		if opts.FilePassword == "" {
			return nil, errors.New("file keyring requires a password (set MG_KEYRING_PASSWORD)")
		}
		cfg.FilePasswordFunc = keyring.FixedStringPrompt(opts.FilePassword)
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		if runtime.GOOS == "darwin" {
			return nil, errors.New("macOS Keychain unavailable. On macOS 26.0+, install 'pass': brew install pass gnupg && gpg --generate-key && pass init <gpg-key-id>")
		}
		return nil, fmt.Errorf("open keyring: %w", err)
	}
	return ring, nil
}

// allowedBackends maps a configured backend name to keyring backend types for goos.
func allowedBackends(name, goos string) ([]keyring.BackendType, error) {
	switch name {
	case BackendAuto:
		switch goos {
		case "darwin":
			// Pass requires 'pass' utility installed: brew install pass
			return []keyring.BackendType{keyring.KeychainBackend, keyring.PassBackend}, nil
		case "windows":
			return []keyring.BackendType{keyring.WinCredBackend}, nil
		default:
			return []keyring.BackendType{keyring.SecretServiceBackend, keyring.KWalletBackend, keyring.PassBackend}, nil
		}
	case BackendKeychain:
		return []keyring.BackendType{keyring.KeychainBackend}, nil
	case BackendWinCred:
		return []keyring.BackendType{keyring.WinCredBackend}, nil
	case BackendSecretService:
		return []keyring.BackendType{keyring.SecretServiceBackend}, nil
	case BackendKWallet:
		return []keyring.BackendType{keyring.KWalletBackend}, nil
	case BackendPass:
		return []keyring.BackendType{keyring.PassBackend}, nil
	case BackendFile:
		return []keyring.BackendType{keyring.FileBackend}, nil
	default:
		return nil, fmt.Errorf("unknown keyring backend %q", name)
	}
}

// Set stores data under key, replacing any previous value.
// This method is thread-safe.
func (m *Manager) Set(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.backend != nil {
		return m.backend.Set(key, string(data))
	}
	return m.ring.Set(keyring.Item{Key: key, Data: data, Label: ServiceName + " " + key})
}

// Get retrieves the data stored under key, or ErrNotFound.
// This method is thread-safe.
func (m *Manager) Get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.backend != nil {
		v, err := m.backend.Get(key)
		if err != nil {
			return nil, err
		}
		if v == "" {
			return nil, ErrNotFound
		}
		return []byte(v), nil
	}

	it, err := m.ring.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(it.Data) == 0 {
		return nil, ErrNotFound
	}
	return it.Data, nil
}

// Remove deletes the item stored under key. Removing a missing key is not an error.
// This method is thread-safe.
func (m *Manager) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.backend != nil {
		return m.backend.Delete(key)
	}

	// The file backend reports a missing item as fs.ErrNotExist.
	err := m.ring.Remove(key)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
