package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	apperr "startup-directory/pkg/common/errors"
	"startup-directory/pkg/core/user/model"
	"startup-directory/pkg/core/user/repository/dao"
)

const minUsernameLength = 2

// TokenIssuer signs a session token for a user id.
type TokenIssuer interface {
	Issue(subject string) (string, error)
}

type UserService struct {
	repo       dao.UserRepository
	tokens     TokenIssuer
	bcryptCost int
}

func NewUserService(repo dao.UserRepository, tokens TokenIssuer) *UserService {
	return &UserService{repo: repo, tokens: tokens, bcryptCost: bcrypt.DefaultCost}
}

// WithBcryptCost overrides the hashing cost; tests use bcrypt.MinCost.
func (s *UserService) WithBcryptCost(cost int) *UserService {
	s.bcryptCost = cost
	return s
}

// Session is a user together with a freshly issued token.
type Session struct {
	User  model.User
	Token string
}

func (s *UserService) Signup(ctx context.Context, username, password string) (Session, error) {
	username = strings.TrimSpace(username)
	if violations := validateSignup(username, password); len(violations) > 0 {
		return Session{}, apperr.Validation(violations)
	}

	exists, err := s.repo.IsUsernameExists(ctx, username)
	if err != nil {
		return Session{}, err
	}
	if exists {
		return Session{}, apperr.Conflict("username")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return Session{}, apperr.Unexpected("error in creating user", err)
	}

	user := model.User{Username: username, PasswordHash: string(hashed)}
	if err := s.repo.CreateUser(ctx, &user); err != nil {
		return Session{}, err
	}

	return s.session(user)
}

func (s *UserService) Signin(ctx context.Context, username, password string) (Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return Session{}, apperr.Validation(missingCredentials(username, password))
	}

	user, err := s.repo.QueryByUsername(ctx, username)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return Session{}, apperr.Unauthorized("wrong username or password")
	case err != nil:
		return Session{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return Session{}, apperr.Unauthorized("wrong username or password")
	}

	return s.session(user)
}

// Current returns the caller's own record.
func (s *UserService) Current(ctx context.Context, id string) (model.User, error) {
	user, err := s.repo.QueryByID(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		return model.User{}, apperr.NotFound("user does not exist")
	}
	return user, err
}

func (s *UserService) session(user model.User) (Session, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return Session{}, apperr.Unexpected("token generation failed", fmt.Errorf("issue token: %w", err))
	}
	user.PasswordHash = ""
	return Session{User: user, Token: token}, nil
}

func missingCredentials(username, password string) []apperr.Violation {
	var out []apperr.Violation
	if username == "" {
		out = append(out, apperr.Violation{Field: "username", Message: "username is required"})
	}
	if password == "" {
		out = append(out, apperr.Violation{Field: "password", Message: "password is required"})
	}
	return out
}
