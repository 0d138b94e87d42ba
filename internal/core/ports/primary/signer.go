package primary

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CallbackClaims is the correlation material embedded in a completion
// callback URL. The automation service echoes the token back verbatim, which
// both authenticates the webhook and routes the result to the right job.
type CallbackClaims struct {
	JobID           uuid.UUID
	OutputObjectKey string
}

// CallbackSigner mints and verifies the tokens carried in callback URLs
type CallbackSigner interface {
	Sign(ctx context.Context, claims CallbackClaims, ttl time.Duration) (string, error)
	Verify(ctx context.Context, token string) (*CallbackClaims, error)
}
