package config

import "os"

// CredentialConfig holds the client credentials exchanged for bearer tokens
// and the public base URL the automation service posts callbacks to.
type CredentialConfig struct {
	ClientID     string
	ClientSecret string
	WebhookURL   string
	TokenURL     string
	Scopes       []string
}

func NewCredentialConfig() *CredentialConfig {
	tokenURL := os.Getenv("TOKEN_URL")
	if tokenURL == "" {
		tokenURL = "https://developer.api.autodesk.com/authentication/v2/token"
	}
	return &CredentialConfig{
		ClientID:     os.Getenv("CLIENT_ID"),
		ClientSecret: os.Getenv("CLIENT_SECRET"),
		WebhookURL:   os.Getenv("WEBHOOK_URL"),
		TokenURL:     tokenURL,
		Scopes:       []string{"code:all", "bucket:create", "bucket:read", "data:read", "data:write", "data:create"},
	}
}

// Valid reports whether the required secrets are present
func (c *CredentialConfig) Valid() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}
