package auth

import (
	"context"

	"golang.org/x/oauth2"
)

// TokenSourceProvider adapts an oauth2.TokenSource (for example a Cognito
// refresh-token source) to the TokenProvider interface. Wrap the source in
// oauth2.ReuseTokenSource if refreshes are expensive.
type TokenSourceProvider struct {
	src oauth2.TokenSource
}

// NewTokenSourceProvider creates a provider backed by an OAuth token source.
func NewTokenSourceProvider(src oauth2.TokenSource) *TokenSourceProvider {
	return &TokenSourceProvider{src: src}
}

// Token implements TokenProvider.
func (p *TokenSourceProvider) Token(ctx context.Context) (string, error) {
	tok, err := p.src.Token()
	if err != nil {
		return "", &Error{Code: ErrCodeRefreshFailed, Message: err.Error()}
	}
	if !tok.Valid() {
		return "", &Error{Code: ErrCodeTokenExpired, Message: "token source returned an expired token"}
	}
	return tok.AccessToken, nil
}
