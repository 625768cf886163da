package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cloudwego/hertz/pkg/common/test/assert"

	apperr "startup-directory/pkg/common/errors"
	"startup-directory/pkg/core/user/model"
	"startup-directory/pkg/testutil"
)

func setupVerifier(t *testing.T) (*Verifier, *TokenService, *testutil.UserStore, string) {
	t.Helper()
	tokens := newTokenService(t, testJWTConfig())
	users := testutil.NewUserStore()
	user := &model.User{Username: "ab", PasswordHash: "hash"}
	if err := users.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return NewVerifier(tokens, users), tokens, users, user.ID
}

func assertUnauthorized(t *testing.T, err error, message string) {
	t.Helper()
	appErr, ok := apperr.As(err)
	if !ok {
		t.Fatalf("expected *AppError, got %v", err)
	}
	assert.DeepEqual(t, apperr.KindUnauthorized, appErr.Kind)
	assert.DeepEqual(t, message, appErr.Message)
}

func TestVerifySuccess(t *testing.T) {
	v, tokens, _, userID := setupVerifier(t)
	token, _ := tokens.Issue(userID)

	got, err := v.Verify(context.Background(), "Bearer "+token)
	assert.Nil(t, err)
	assert.DeepEqual(t, userID, got)
}

func TestVerifyHeaderShape(t *testing.T) {
	v, tokens, _, userID := setupVerifier(t)
	token, _ := tokens.Issue(userID)

	_, err := v.Verify(context.Background(), "")
	assertUnauthorized(t, err, "missing or invalid token")

	_, err = v.Verify(context.Background(), "bearer "+token)
	assertUnauthorized(t, err, "missing or invalid token")

	_, err = v.Verify(context.Background(), "Token "+token)
	assertUnauthorized(t, err, "missing or invalid token")

	_, err = v.Verify(context.Background(), "Bearer ")
	assertUnauthorized(t, err, "token not provided")
}

func TestVerifyTokenFailures(t *testing.T) {
	v, tokens, _, userID := setupVerifier(t)

	forged := testJWTConfig()
	forged.Secret = "not-the-server-secret"
	forgedToken, _ := newTokenService(t, forged).Issue(userID)
	_, err := v.Verify(context.Background(), "Bearer "+forgedToken)
	assertUnauthorized(t, err, "invalid token")

	_, err = v.Verify(context.Background(), "Bearer garbage")
	assertUnauthorized(t, err, "invalid token")

	tokens.now = func() time.Time { return time.Now().Add(-3 * time.Hour) }
	expired, _ := tokens.Issue(userID)
	tokens.now = time.Now
	_, err = v.Verify(context.Background(), "Bearer "+expired)
	assertUnauthorized(t, err, "token expired")
}

func TestVerifyUnknownUser(t *testing.T) {
	v, tokens, _, _ := setupVerifier(t)
	token, _ := tokens.Issue("00000000-0000-0000-0000-000000000000")

	_, err := v.Verify(context.Background(), "Bearer "+token)
	assertUnauthorized(t, err, "user does not exist")
}

func TestVerifyStoreFailure(t *testing.T) {
	v, tokens, users, userID := setupVerifier(t)
	token, _ := tokens.Issue(userID)
	users.Err = errors.New("connection refused")

	_, err := v.Verify(context.Background(), "Bearer "+token)
	assert.DeepEqual(t, apperr.KindUnexpected, apperr.KindOf(err))
}

func TestVerifyWithoutSecret(t *testing.T) {
	cfg := testJWTConfig()
	cfg.Secret = ""
	v := NewVerifier(newTokenService(t, cfg), testutil.NewUserStore())

	_, err := v.Verify(context.Background(), "Bearer something")
	assert.Assert(t, errors.Is(err, apperr.ErrInternalConfig), err)
	assert.DeepEqual(t, 500, apperr.StatusOf(err))
}
