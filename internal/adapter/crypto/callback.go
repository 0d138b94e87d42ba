package crypto

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"

	"gitlab.com/meshopt-cloud.net/internal/core/ports/primary"
)

const signingContext = "workitem-callback-v1"

var _ primary.CallbackSigner = (*CallbackSigner)(nil)

// CallbackSigner mints HMAC-signed tokens for completion callback URLs. The
// signing key is derived from the client secret with HKDF so the webhook
// endpoint needs no extra configured secret.
type CallbackSigner struct {
	key []byte
}

// NewCallbackSigner derives the signing key from the client secret
func NewCallbackSigner(clientSecret string) (*CallbackSigner, error) {
	reader := hkdf.New(sha256.New, []byte(clientSecret), nil, []byte(signingContext))
	key := make([]byte, 32)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("failed to derive callback signing key: %w", err)
	}
	return &CallbackSigner{key: key}, nil
}

type callbackTokenClaims struct {
	OutputObjectKey string `json:"outputKey"`
	jwt.RegisteredClaims
}

// Sign issues a token carrying the job id and output object key
func (s *CallbackSigner) Sign(ctx context.Context, claims primary.CallbackClaims, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, callbackTokenClaims{
		OutputObjectKey: claims.OutputObjectKey,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.JobID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})

	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign callback token: %w", err)
	}
	return signed, nil
}

// Verify parses the token and returns the claims it carries
func (s *CallbackSigner) Verify(ctx context.Context, tokenString string) (*primary.CallbackClaims, error) {
	var claims callbackTokenClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse callback token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("callback token is not valid")
	}

	jobID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("callback token has invalid job id: %w", err)
	}

	return &primary.CallbackClaims{
		JobID:           jobID,
		OutputObjectKey: claims.OutputObjectKey,
	}, nil
}
