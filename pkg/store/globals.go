package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Well-known entry names.
const (
	TokenKey            = "token"
	PermissionButtonKey = "permissionButton"
)

// ErrNoToken is returned by TokenClaims when no token is stored.
var ErrNoToken = errors.New("no token stored")

// Globals exposes the session entries shared across commands.
type Globals struct {
	acc *Accessor
}

// NewGlobals reads and writes the session entries through acc.
func NewGlobals(acc *Accessor) *Globals {
	return &Globals{acc: acc}
}

// Token returns the stored bearer token, or "" when none is stored.
func (g *Globals) Token(ctx context.Context) (string, error) {
	tok, _, err := g.acc.Get(ctx, TokenKey)
	return tok, err
}

// SetToken stores token. An empty token removes the entry.
func (g *Globals) SetToken(ctx context.Context, token string) error {
	if token == "" {
		return g.acc.Remove(ctx, TokenKey)
	}
	return g.acc.Set(ctx, TokenKey, token)
}

// PermissionButtons returns the stored permission button codes. A missing
// entry yields an empty slice.
func (g *Globals) PermissionButtons(ctx context.Context) ([]string, error) {
	buttons := []string{}
	if _, err := g.acc.GetJSON(ctx, PermissionButtonKey, &buttons); err != nil {
		return nil, err
	}
	if buttons == nil {
		buttons = []string{}
	}
	return buttons, nil
}

// SetPermissionButtons stores buttons. A nil slice removes the entry.
func (g *Globals) SetPermissionButtons(ctx context.Context, buttons []string) error {
	if buttons == nil {
		return g.acc.Remove(ctx, PermissionButtonKey)
	}
	return g.acc.Set(ctx, PermissionButtonKey, buttons)
}

// TokenClaims decodes the claims of the stored token without verifying its
// signature. It is meant for display only.
func (g *Globals) TokenClaims(ctx context.Context) (jwt.MapClaims, error) {
	tok, err := g.Token(ctx)
	if err != nil {
		return nil, err
	}
	if tok == "" {
		return nil, ErrNoToken
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		return nil, fmt.Errorf("failed to decode token: %w", err)
	}
	return claims, nil
}
