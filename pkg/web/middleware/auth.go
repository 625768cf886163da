package middleware

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"startup-directory/pkg/core/auth"
)

// IdentityKey holds the authenticated user id on the request context.
const IdentityKey = "user_id"

// AuthMiddleware gates a route on a valid bearer token.
func AuthMiddleware(verifier *auth.Verifier) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		userID, err := verifier.Verify(c, string(ctx.GetHeader("Authorization")))
		if err != nil {
			_ = ctx.Error(err)
			ctx.Abort()
			return
		}
		ctx.Set(IdentityKey, userID)
		ctx.Next(c)
	}
}

// CurrentUserID returns the id set by AuthMiddleware, or "".
func CurrentUserID(ctx *app.RequestContext) string {
	return ctx.GetString(IdentityKey)
}
