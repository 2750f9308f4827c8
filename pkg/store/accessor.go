package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// Accessor reads and writes Store entries. Non-string values are stored as
// JSON. Every method treats an empty name as a no-op.
type Accessor struct {
	store Store
}

// NewAccessor wraps s.
func NewAccessor(s Store) *Accessor {
	return &Accessor{store: s}
}

// Store returns the underlying store.
func (a *Accessor) Store() Store { return a.store }

// Set stores content under name. Strings are stored verbatim, anything else
// as its JSON encoding.
func (a *Accessor) Set(ctx context.Context, name string, content any) error {
	if name == "" {
		return nil
	}
	s, ok := content.(string)
	if !ok {
		data, err := json.Marshal(content)
		if err != nil {
			return fmt.Errorf("failed to encode %q: %w", name, err)
		}
		s = string(data)
	}
	return a.store.Set(ctx, name, s)
}

// Get returns the raw stored value of name and whether it exists.
func (a *Accessor) Get(ctx context.Context, name string) (string, bool, error) {
	if name == "" {
		return "", false, nil
	}
	return a.store.Get(ctx, name)
}

// GetJSON decodes the value stored under name into target. A missing entry
// leaves target untouched and reports false.
func (a *Accessor) GetJSON(ctx context.Context, name string, target any) (bool, error) {
	raw, ok, err := a.Get(ctx, name)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), target); err != nil {
		return true, fmt.Errorf("failed to decode %q: %w", name, err)
	}
	return true, nil
}

// Remove deletes name.
func (a *Accessor) Remove(ctx context.Context, name string) error {
	if name == "" {
		return nil
	}
	return a.store.Delete(ctx, name)
}

// RemoveAll deletes every entry.
func (a *Accessor) RemoveAll(ctx context.Context) error {
	return a.store.Clear(ctx)
}
