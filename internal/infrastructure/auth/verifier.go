// Package auth verifies bearer tokens issued by the identity provider.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"

	"github.com/bychung/snusv-angel-club-sub003/internal/application/ports"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain"
	pkgjwt "github.com/bychung/snusv-angel-club-sub003/pkg/jwt"
	"github.com/bychung/snusv-angel-club-sub003/pkg/logger"
)

var (
	_ ports.TokenVerifier = (*HS256Verifier)(nil)
	_ ports.TokenVerifier = (*JWKSVerifier)(nil)
)

// HS256Verifier checks tokens signed with a shared secret.
type HS256Verifier struct {
	secret string
	log    *logger.Logger
}

// NewHS256Verifier builds the verifier.
func NewHS256Verifier(secret string, log *logger.Logger) (*HS256Verifier, error) {
	if secret == "" {
		return nil, errors.New("auth: empty JWT secret")
	}
	if log == nil {
		log = logger.Nop()
	}
	return &HS256Verifier{secret: secret, log: log.Component("jwt")}, nil
}

func (v *HS256Verifier) Verify(_ context.Context, token string) (*ports.TokenIdentity, error) {
	claims, err := pkgjwt.Parse(v.secret, token)
	if err != nil {
		v.log.Debug().Err(err).Msg("token rejected")
		return nil, domain.Unauthenticated("invalid or expired token")
	}
	return &ports.TokenIdentity{UserID: claims.Subject, Email: claims.Email}, nil
}

// JWKSVerifier checks RS256/ES256 tokens against a remote JWKS. keyfunc caches the key set
// and refreshes it on unknown kids.
type JWKSVerifier struct {
	jwks keyfunc.Keyfunc
	log  *logger.Logger
}

// NewJWKSVerifier fetches the key set from jwksURL.
func NewJWKSVerifier(ctx context.Context, jwksURL string, log *logger.Logger) (*JWKSVerifier, error) {
	if jwksURL == "" {
		return nil, errors.New("auth: empty JWKS URL")
	}
	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("auth: create JWKS client: %w", err)
	}
	v := newJWKSVerifier(jwks, log)
	v.log.Info().Str("jwks_url", jwksURL).Msg("JWT verifier initialized")
	return v, nil
}

func newJWKSVerifier(jwks keyfunc.Keyfunc, log *logger.Logger) *JWKSVerifier {
	if log == nil {
		log = logger.Nop()
	}
	return &JWKSVerifier{jwks: jwks, log: log.Component("jwks")}
}

func (v *JWKSVerifier) Verify(_ context.Context, token string) (*ports.TokenIdentity, error) {
	claims := &pkgjwt.Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, v.jwks.Keyfunc,
		jwt.WithValidMethods([]string{"RS256", "ES256"}),
		jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		v.log.Debug().Err(err).Msg("token rejected")
		return nil, domain.Unauthenticated("invalid or expired token")
	}
	if claims.Subject == "" {
		return nil, domain.Unauthenticated("token has no subject")
	}
	// Anonymous sessions of the identity provider carry role "anon".
	if claims.Role != "" && claims.Role != "authenticated" {
		return nil, domain.Unauthenticated("token role %q is not allowed", claims.Role)
	}
	return &ports.TokenIdentity{UserID: claims.Subject, Email: claims.Email}, nil
}
