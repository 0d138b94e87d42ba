package secondary

import "context"

// TokenProvider supplies a valid bearer token for calls to the remote services
type TokenProvider interface {
	AccessToken(ctx context.Context) (string, error)
}
