// Package auth supplies bearer tokens for requests to the coaching backend.
// The session provider that actually owns credentials is an external
// collaborator; this package only defines the seam the client pulls tokens
// through, plus adapters for the common cases.
package auth

import (
	"context"
	"strings"
)

// TokenProvider supplies a bearer token for outbound requests.
// Implementations must be safe for concurrent use.
type TokenProvider interface {
	// Token returns a usable bearer token, or an error when none is
	// available. Callers fail fast on error and never hit the network.
	Token(ctx context.Context) (string, error)
}

// TokenProviderFunc adapts a function to the TokenProvider interface.
type TokenProviderFunc func(ctx context.Context) (string, error)

// Token implements TokenProvider.
func (f TokenProviderFunc) Token(ctx context.Context) (string, error) {
	return f(ctx)
}

// StaticTokenProvider returns a fixed token.
type StaticTokenProvider struct {
	token string
}

// NewStaticTokenProvider creates a provider for a pre-issued token.
func NewStaticTokenProvider(token string) *StaticTokenProvider {
	return &StaticTokenProvider{token: token}
}

// Token implements TokenProvider.
func (p *StaticTokenProvider) Token(ctx context.Context) (string, error) {
	if strings.TrimSpace(p.token) == "" {
		return "", &Error{Code: ErrCodeNoToken, Message: "no token configured"}
	}
	return p.token, nil
}

// Error represents an authentication failure.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return "auth error: " + e.Message + " (" + e.Code + ")"
}

// Common error codes
const (
	ErrCodeNoToken       = "no_token"
	ErrCodeTokenExpired  = "token_expired"
	ErrCodeRefreshFailed = "refresh_failed"
)
