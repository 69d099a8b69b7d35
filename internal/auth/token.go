// Package auth issues and verifies blog session tokens and runs the GitHub sign-in exchange.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/namgiho96/giho-blog/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenIssuer   = "giho-blog-api"
	tokenAudience = "giho-blog-web"
)

// ErrRevoked is returned for tokens that were explicitly signed out.
var ErrRevoked = errors.New("session token revoked")

// Claims carries the signed-in user's identity and display metadata.
type Claims struct {
	UserName    string  `json:"user_name"`
	DisplayName string  `json:"display_name"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
	Provider    string  `json:"provider,omitempty"`
	jwt.RegisteredClaims
}

// User converts the claims back into the session user.
func (c *Claims) User() *models.AuthUser {
	return &models.AuthUser{
		ID:          c.Subject,
		UserName:    c.UserName,
		DisplayName: c.DisplayName,
		AvatarURL:   c.AvatarURL,
		Provider:    c.Provider,
	}
}

// Issuer signs and parses HS256 session tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// TTL is how long issued tokens stay valid.
func (i *Issuer) TTL() time.Duration { return i.ttl }

// Issue signs a token for user.
func (i *Issuer) Issue(user *models.AuthUser) (string, error) {
	if len(i.secret) == 0 {
		return "", errors.New("JWT secret not configured")
	}
	if user == nil || user.ID == "" {
		return "", errors.New("cannot issue a session without a user id")
	}

	now := i.now()
	claims := Claims{
		UserName:    user.UserName,
		DisplayName: user.DisplayName,
		AvatarURL:   user.AvatarURL,
		Provider:    user.Provider,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    tokenIssuer,
			Audience:  jwt.ClaimStrings{tokenAudience},
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// Parse validates signature, issuer, audience and expiry.
func (i *Issuer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(_ *jwt.Token) (interface{}, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid session token: %w", err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, errors.New("invalid session token")
	}
	return claims, nil
}

// Revocations reports and records signed-out token ids.
type Revocations interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Authenticator verifies session tokens, honouring sign-outs when a revocation
// store is available.
type Authenticator struct {
	issuer      *Issuer
	revocations Revocations
}

// NewAuthenticator builds an Authenticator. revocations may be nil, in which case
// sign-out only clears the client cookie.
func NewAuthenticator(issuer *Issuer, revocations Revocations) *Authenticator {
	return &Authenticator{issuer: issuer, revocations: revocations}
}

// Verify implements middleware.SessionVerifier.
func (a *Authenticator) Verify(ctx context.Context, token string) (*models.AuthUser, error) {
	claims, err := a.issuer.Parse(token)
	if err != nil {
		return nil, err
	}
	if a.revocations != nil {
		revoked, err := a.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			return nil, ErrRevoked
		}
	}
	return claims.User(), nil
}

// Revoke signs out token for the remainder of its lifetime.
func (a *Authenticator) Revoke(ctx context.Context, token string) error {
	claims, err := a.issuer.Parse(token)
	if err != nil {
		// Invalid tokens cannot be used anyway.
		return nil
	}
	if a.revocations == nil || claims.ExpiresAt == nil {
		return nil
	}
	return a.revocations.Revoke(ctx, claims.ID, time.Until(claims.ExpiresAt.Time))
}
