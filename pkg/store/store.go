// Package store is a small persistent string key-value store with pluggable
// backends, plus accessors that layer JSON values and well-known session
// entries on top of it.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Store holds string values by key.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Clear removes every key.
	Clear(ctx context.Context) error
	// Keys lists the stored keys in ascending order.
	Keys(ctx context.Context) ([]string, error)
	Close() error
}

// Backend names a Store implementation.
type Backend string

const (
	BackendFile    Backend = "file"
	BackendKeyring Backend = "keyring"
	BackendSQLite  Backend = "sqlite"
	BackendMemory  Backend = "memory"
)

// DefaultService is the keyring service name used when none is configured.
const DefaultService = "wheel"

// ErrUnknownBackend is returned by Open for unsupported backend names.
var ErrUnknownBackend = errors.New("unknown store backend")

// Options selects and configures a backend.
type Options struct {
	Backend Backend
	// Path is the file or database location for the file and sqlite backends.
	// It defaults to a file under the user config directory.
	Path string
	// Service is the keyring service name.
	Service string
}

// Open returns the Store described by opts. An empty backend selects the file
// backend.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendFile:
		path, err := defaultPath(opts.Path, "store.json")
		if err != nil {
			return nil, err
		}
		return NewFileStore(path), nil
	case BackendKeyring:
		service := opts.Service
		if service == "" {
			service = DefaultService
		}
		return NewKeyringStore(service), nil
	case BackendSQLite:
		path, err := defaultPath(opts.Path, "store.db")
		if err != nil {
			return nil, err
		}
		s, err := OpenSQLite(ctx, path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendMemory:
		return NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
}

func defaultPath(path, name string) (string, error) {
	if path != "" {
		return path, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(dir, "wheel", name), nil
}
