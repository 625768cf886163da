package auth

import (
	"context"
	"errors"
	"strings"

	apperr "startup-directory/pkg/common/errors"
	"startup-directory/pkg/core/user/model"
)

const bearerPrefix = "Bearer "

// UserLookup resolves a token subject to a stored user.
type UserLookup interface {
	QueryByID(ctx context.Context, id string) (model.User, error)
}

// Verifier turns an Authorization header into an authenticated user id.
type Verifier struct {
	tokens *TokenService
	users  UserLookup
}

func NewVerifier(tokens *TokenService, users UserLookup) *Verifier {
	return &Verifier{tokens: tokens, users: users}
}

// Verify checks header and returns the caller's user id. Failures are
// *apperr.AppError values except for token errors it cannot classify.
func (v *Verifier) Verify(ctx context.Context, header string) (string, error) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", apperr.Unauthorized("missing or invalid token")
	}

	token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if token == "" {
		return "", apperr.Unauthorized("token not provided")
	}

	if v.tokens == nil || !v.tokens.Configured() {
		return "", apperr.InternalConfig("secret not configured")
	}

	subject, err := v.tokens.Parse(token)
	switch {
	case errors.Is(err, ErrExpiredToken):
		return "", apperr.Unauthorized("token expired")
	case errors.Is(err, ErrInvalidToken):
		return "", apperr.Unauthorized("invalid token")
	case err != nil:
		return "", err
	}

	user, err := v.users.QueryByID(ctx, subject)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return "", apperr.Unauthorized("user does not exist")
		}
		return "", apperr.Unexpected("authentication failed", err)
	}
	return user.ID, nil
}
