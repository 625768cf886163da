// Package auth issues and verifies the bearer tokens that identify users.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"startup-directory/pkg/common/config"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrNoSecret     = errors.New("signing secret is not configured")
)

// TokenService signs and parses HMAC JWTs whose subject is a user id.
type TokenService struct {
	secret []byte
	method jwt.SigningMethod
	expiry time.Duration
	issuer string
	now    func() time.Time
}

func NewTokenService(cfg config.JWTAuthConfig) (*TokenService, error) {
	method := jwt.GetSigningMethod(cfg.SigningMethod)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported signing method %q", cfg.SigningMethod)
	}
	return &TokenService{
		secret: []byte(cfg.Secret),
		method: method,
		expiry: cfg.ExpireDuration,
		issuer: cfg.Issuer,
		now:    time.Now,
	}, nil
}

// Expiry is the lifetime of issued tokens.
func (s *TokenService) Expiry() time.Duration {
	return s.expiry
}

// Configured reports whether a signing secret is present.
func (s *TokenService) Configured() bool {
	return len(s.secret) > 0
}

// Issue signs a token for subject.
func (s *TokenService) Issue(subject string) (string, error) {
	if !s.Configured() {
		return "", ErrNoSecret
	}
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
	}
	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Parse verifies signature, issuer and expiry, returning the subject.
// Expired tokens yield ErrExpiredToken, structurally bad or forged ones
// ErrInvalidToken; anything else is returned unclassified.
func (s *TokenService) Parse(tokenString string) (string, error) {
	if !s.Configured() {
		return "", ErrNoSecret
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.now),
	)

	claims := &jwt.RegisteredClaims{}
	_, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return "", classify(err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims.Subject, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrExpiredToken, err)
	case errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable),
		errors.Is(err, jwt.ErrTokenInvalidClaims),
		errors.Is(err, jwt.ErrTokenNotValidYet),
		errors.Is(err, jwt.ErrTokenInvalidIssuer),
		errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	default:
		return err
	}
}
