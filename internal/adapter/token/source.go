package token

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"gitlab.com/meshopt-cloud.net/internal/config"
)

// Source exchanges client credentials for short-lived bearer tokens. The
// underlying oauth2 token source caches the token until it expires, so callers
// can request one per operation without hammering the credential provider.
type Source struct {
	source oauth2.TokenSource
}

// NewSource creates a token source for the internal (write) scopes
func NewSource(cfg *config.CredentialConfig) *Source {
	ccCfg := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		Scopes:       cfg.Scopes,
	}
	return &Source{
		source: ccCfg.TokenSource(context.Background()),
	}
}

// AccessToken returns a valid bearer token, fetching a fresh one when needed
func (s *Source) AccessToken(ctx context.Context) (string, error) {
	tok, err := s.source.Token()
	if err != nil {
		return "", fmt.Errorf("failed to acquire access token: %w", err)
	}
	return tok.AccessToken, nil
}
