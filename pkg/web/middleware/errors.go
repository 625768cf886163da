package middleware

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"

	apperr "startup-directory/pkg/common/errors"
	"startup-directory/pkg/common/tracker"
	"startup-directory/pkg/web/model"
)

// ErrorHandler is the single place failures become responses. Handlers
// record errors with ctx.Error and return without writing a body.
func ErrorHandler(tr *tracker.Tracker) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		ctx.Next(c)

		err := apperr.Last(ctx.Errors)
		if err == nil {
			return
		}

		status := apperr.StatusOf(err)
		body := model.ErrorRes{Status: model.StatusFail}
		if status >= 500 {
			body.Status = model.StatusError
		}

		appErr, ok := apperr.As(err)
		switch {
		case !ok || appErr.Kind == apperr.KindUnexpected:
			hlog.CtxErrorf(c, "Unexpected error path=%s: %v", ctx.Path(), err)
			tr.CaptureException(c, string(ctx.Path()), err)
			body.Message = "Something went wrong"
		case appErr.Kind == apperr.KindInternalConfig:
			hlog.CtxErrorf(c, "Server misconfigured path=%s: %v", ctx.Path(), err)
			tr.CaptureException(c, string(ctx.Path()), err)
			body.Message = appErr.Message
		default:
			body.Message = appErr.Message
			body.Errors = appErr.Violations
		}

		ctx.AbortWithStatusJSON(status, body)
	}
}
