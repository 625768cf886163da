package model

import (
	"time"

	usermodel "startup-directory/pkg/core/user/model"
)

// request/response shapes
type (
	SignupReq struct {
		Username string `json:"username" form:"username"`
		Password string `json:"password" form:"password"`
	}

	SigninReq struct {
		Username string `json:"username" form:"username"`
		Password string `json:"password" form:"password"`
	}

	UserRes struct {
		ID        string    `json:"id"`
		Username  string    `json:"username"`
		Avatar    string    `json:"avatar"`
		CreatedAt time.Time `json:"createdAt"`
		UpdatedAt time.Time `json:"updatedAt"`
	}
)

// NewUserRes never carries the password hash.
func NewUserRes(u usermodel.User) UserRes {
	return UserRes{
		ID:        u.ID,
		Username:  u.Username,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
