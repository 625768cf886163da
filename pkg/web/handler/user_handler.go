package handler

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol"

	apperr "startup-directory/pkg/common/errors"
	"startup-directory/pkg/core/user/service"
	"startup-directory/pkg/web/middleware"
	"startup-directory/pkg/web/model"
)

// SessionCookie describes the cookie that mirrors the issued token.
type SessionCookie struct {
	Name   string
	MaxAge time.Duration
	Secure bool
}

type UserHandler struct {
	users  *service.UserService
	cookie SessionCookie
}

func NewUserHandler(users *service.UserService, cookie SessionCookie) *UserHandler {
	return &UserHandler{users: users, cookie: cookie}
}

func (h *UserHandler) Signup(ctx context.Context, c *app.RequestContext) {
	var req model.SignupReq
	if err := c.BindAndValidate(&req); err != nil {
		_ = c.Error(badBody(err))
		return
	}

	session, err := h.users.Signup(ctx, req.Username, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.respondSession(c, "User sign up success", session)
}

func (h *UserHandler) Signin(ctx context.Context, c *app.RequestContext) {
	var req model.SigninReq
	if err := c.BindAndValidate(&req); err != nil {
		_ = c.Error(badBody(err))
		return
	}

	session, err := h.users.Signin(ctx, req.Username, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.respondSession(c, "User sign in success", session)
}

// Current returns the caller's own record.
func (h *UserHandler) Current(ctx context.Context, c *app.RequestContext) {
	user, err := h.users.Current(ctx, middleware.CurrentUserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(200, model.Success("Current user", utils.H{"user": model.NewUserRes(user)}))
}

func (h *UserHandler) respondSession(c *app.RequestContext, message string, session service.Session) {
	c.SetCookie(h.cookie.Name, session.Token, int(h.cookie.MaxAge/time.Second), "/", "",
		protocol.CookieSameSiteLaxMode, h.cookie.Secure, true)

	c.JSON(200, model.Success(message, utils.H{
		"user": model.NewUserRes(session.User),
		"jwt":  session.Token,
	}))
}

func badBody(err error) error {
	return apperr.Validation([]apperr.Violation{{Field: "body", Message: err.Error()}})
}
