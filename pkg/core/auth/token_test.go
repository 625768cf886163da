package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/hertz/pkg/common/test/assert"

	"startup-directory/pkg/common/config"
)

func testJWTConfig() config.JWTAuthConfig {
	return config.JWTAuthConfig{
		Secret:         "test-secret",
		ExpireDuration: time.Hour,
		Issuer:         "startup-directory-test",
		SigningMethod:  "HS256",
	}
}

func newTokenService(t *testing.T, cfg config.JWTAuthConfig) *TokenService {
	t.Helper()
	s, err := NewTokenService(cfg)
	if err != nil {
		t.Fatalf("NewTokenService returned error: %v", err)
	}
	return s
}

func TestIssueAndParse(t *testing.T) {
	s := newTokenService(t, testJWTConfig())

	token, err := s.Issue("user-123")
	assert.Nil(t, err)
	assert.Assert(t, token != "")

	subject, err := s.Parse(token)
	assert.Nil(t, err)
	assert.DeepEqual(t, "user-123", subject)
}

func TestParseRejectsOtherSecret(t *testing.T) {
	other := testJWTConfig()
	other.Secret = "another-secret"
	token, err := newTokenService(t, other).Issue("user-123")
	assert.Nil(t, err)

	_, err = newTokenService(t, testJWTConfig()).Parse(token)
	assert.Assert(t, errors.Is(err, ErrInvalidToken), err)
}

func TestParseRejectsExpired(t *testing.T) {
	s := newTokenService(t, testJWTConfig())
	s.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := s.Issue("user-123")
	assert.Nil(t, err)

	s.now = time.Now
	_, err = s.Parse(token)
	assert.Assert(t, errors.Is(err, ErrExpiredToken), err)
}

func TestParseRejectsGarbage(t *testing.T) {
	s := newTokenService(t, testJWTConfig())
	for _, token := range []string{"not-a-jwt", "a.b.c", strings.Repeat("x", 10)} {
		_, err := s.Parse(token)
		assert.Assert(t, errors.Is(err, ErrInvalidToken), token, err)
	}
}

func TestParseRejectsOtherIssuer(t *testing.T) {
	other := testJWTConfig()
	other.Issuer = "someone-else"
	token, _ := newTokenService(t, other).Issue("user-123")

	_, err := newTokenService(t, testJWTConfig()).Parse(token)
	assert.Assert(t, errors.Is(err, ErrInvalidToken), err)
}

func TestParseRejectsAlgorithmSwitch(t *testing.T) {
	other := testJWTConfig()
	other.SigningMethod = "HS512"
	token, _ := newTokenService(t, other).Issue("user-123")

	_, err := newTokenService(t, testJWTConfig()).Parse(token)
	assert.Assert(t, errors.Is(err, ErrInvalidToken), err)
}

func TestMissingSecret(t *testing.T) {
	cfg := testJWTConfig()
	cfg.Secret = ""
	s := newTokenService(t, cfg)

	_, err := s.Issue("user-123")
	assert.Assert(t, errors.Is(err, ErrNoSecret))
	_, err = s.Parse("whatever")
	assert.Assert(t, errors.Is(err, ErrNoSecret))
}

func TestUnsupportedSigningMethod(t *testing.T) {
	cfg := testJWTConfig()
	cfg.SigningMethod = "RS256"
	_, err := NewTokenService(cfg)
	assert.NotNil(t, err)
}
