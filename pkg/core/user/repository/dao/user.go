package dao

import (
	"context"

	"startup-directory/pkg/core/user/model"
)

// UserRepository is the Credential Store.
type UserRepository interface {
	QueryByID(ctx context.Context, id string) (model.User, error)
	QueryByUsername(ctx context.Context, username string) (model.User, error) // includes the password hash
	IsUsernameExists(ctx context.Context, username string) (bool, error)
	CreateUser(ctx context.Context, user *model.User) error
}
