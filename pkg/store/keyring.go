package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/samber/lo"
	"github.com/zalando/go-keyring"
)

// indexKey is the reserved keyring entry listing the stored keys; the OS
// keychain APIs cannot enumerate a service's entries.
const indexKey = "__wheel_index__"

// KeyringStore keeps values in the operating system keychain under a single
// service name.
type KeyringStore struct {
	service string
	mu      sync.Mutex
}

// NewKeyringStore returns a store whose entries live under service in the
// OS keychain.
func NewKeyringStore(service string) *KeyringStore {
	return &KeyringStore{service: service}
}

func (k *KeyringStore) Get(_ context.Context, key string) (string, bool, error) {
	if key == indexKey {
		return "", false, nil
	}
	v, err := keyring.Get(k.service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read keyring entry %q: %w", key, err)
	}
	return v, true, nil
}

func (k *KeyringStore) Set(_ context.Context, key, value string) error {
	if key == indexKey {
		return fmt.Errorf("key %q is reserved", key)
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	if err := keyring.Set(k.service, key, value); err != nil {
		return fmt.Errorf("failed to write keyring entry %q: %w", key, err)
	}
	keys, err := k.index()
	if err != nil {
		return err
	}
	if slices.Contains(keys, key) {
		return nil
	}
	return k.saveIndex(append(keys, key))
}

func (k *KeyringStore) Delete(_ context.Context, key string) error {
	if key == indexKey {
		return nil
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	if err := keyring.Delete(k.service, key); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete keyring entry %q: %w", key, err)
	}
	keys, err := k.index()
	if err != nil {
		return err
	}
	return k.saveIndex(lo.Without(keys, key))
}

func (k *KeyringStore) Clear(context.Context) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	keys, err := k.index()
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := keyring.Delete(k.service, key); err != nil && !errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("failed to delete keyring entry %q: %w", key, err)
		}
	}
	if err := keyring.Delete(k.service, indexKey); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete keyring index: %w", err)
	}
	return nil
}

func (k *KeyringStore) Keys(context.Context) ([]string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	keys, err := k.index()
	if err != nil {
		return nil, err
	}
	slices.Sort(keys)
	return keys, nil
}

func (k *KeyringStore) Close() error { return nil }

func (k *KeyringStore) index() ([]string, error) {
	raw, err := keyring.Get(k.service, indexKey)
	if errors.Is(err, keyring.ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read keyring index: %w", err)
	}
	var keys []string
	if err := json.Unmarshal([]byte(raw), &keys); err != nil {
		return nil, fmt.Errorf("corrupt keyring index: %w", err)
	}
	return keys, nil
}

func (k *KeyringStore) saveIndex(keys []string) error {
	if len(keys) == 0 {
		if err := keyring.Delete(k.service, indexKey); err != nil && !errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("failed to delete keyring index: %w", err)
		}
		return nil
	}
	data, err := json.Marshal(keys)
	if err != nil {
		return err
	}
	if err := keyring.Set(k.service, indexKey, string(data)); err != nil {
		return fmt.Errorf("failed to write keyring index: %w", err)
	}
	return nil
}
