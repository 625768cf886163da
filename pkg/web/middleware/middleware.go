package middleware

import (
	"context"
	"fmt"
	"runtime/debug"
	"slices"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/hertz-contrib/cors"

	"startup-directory/pkg/common/config"
	"startup-directory/pkg/web/model"
)

// LoggerMiddleware logs one line per request
func LoggerMiddleware() app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		start := time.Now()
		ctx.Next(c)
		latency := time.Since(start)

		hlog.CtxInfof(c, "| %3d | %13v | %15s | %-7s | %s | UA=%s",
			ctx.Response.StatusCode(),
			latency,
			ctx.ClientIP(),
			ctx.Method(),
			ctx.Path(),
			ctx.GetHeader("User-Agent"),
		)
	}
}

// RecoveryMiddleware turns a panic into a 500; stack traces are only shown
// outside production.
func RecoveryMiddleware(cfg *config.Config) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		defer func() {
			if err := recover(); err != nil {
				stack := string(debug.Stack())

				hlog.CtxErrorf(c, "[PANIC RECOVERED] %v\n%s", err, stack)

				if cfg.IsProd() {
					ctx.AbortWithStatusJSON(500, model.ErrorRes{
						Status:  model.StatusError,
						Message: "Something went wrong",
					})
				} else {
					ctx.AbortWithStatusJSON(500, map[string]interface{}{
						"status":  model.StatusError,
						"message": fmt.Sprintf("%v", err),
						"stack":   strings.Split(stack, "\n"),
					})
				}
			}
		}()
		ctx.Next(c)
	}
}

// CORSMiddleware allows the configured front-end origins
func CORSMiddleware(corsConfig config.CORSConfig) app.HandlerFunc {
	cfg := cors.Config{
		AllowOrigins:     corsConfig.AllowOrigins,
		AllowMethods:     corsConfig.AllowMethods,
		AllowHeaders:     corsConfig.AllowHeaders,
		ExposeHeaders:    corsConfig.ExposeHeaders,
		AllowCredentials: corsConfig.AllowCredentials,
		MaxAge:           corsConfig.MaxAge,
	}
	if len(corsConfig.TrustedDomains) > 0 {
		// subdomains of trusted domains are allowed on top of AllowOrigins
		cfg.AllowOriginFunc = func(origin string) bool {
			if slices.Contains(corsConfig.AllowOrigins, origin) {
				return true
			}
			for _, domain := range corsConfig.TrustedDomains {
				if strings.HasSuffix(origin, domain) {
					return true
				}
			}
			return false
		}
	}
	return cors.New(cfg)
}

// TimeoutMiddleware bounds the context handed to handlers and the store.
func TimeoutMiddleware(seconds int) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		if seconds <= 0 {
			ctx.Next(c)
			return
		}
		timeoutCtx, cancel := context.WithTimeout(c, time.Duration(seconds)*time.Second)
		defer cancel()

		ctx.Next(timeoutCtx)

		if timeoutCtx.Err() == context.DeadlineExceeded {
			hlog.CtxWarnf(c, "request exceeded timeout path=%s", ctx.Path())
		}
	}
}

// RateLimitMiddleware applies a token bucket shared by all clients
func RateLimitMiddleware(rate int, interval time.Duration) app.HandlerFunc {
	limiter := NewTokenBucket(rate, interval)

	return func(c context.Context, ctx *app.RequestContext) {
		if !limiter.Allow() {
			hlog.CtxInfof(c, "[RATE LIMIT] path=%s", ctx.Path())
			ctx.AbortWithStatusJSON(429, model.ErrorRes{
				Status:  model.StatusFail,
				Message: "too many requests",
			})
			return
		}
		ctx.Next(c)
	}
}

// TokenBucket starts full and regains rate tokens per interval.
type TokenBucket struct {
	tokens chan struct{}
}

func NewTokenBucket(rate int, interval time.Duration) *TokenBucket {
	if interval <= 0 {
		interval = time.Second
	}
	tb := &TokenBucket{tokens: make(chan struct{}, rate)}
	for i := 0; i < rate; i++ {
		tb.tokens <- struct{}{}
	}

	go func() {
		ticker := time.NewTicker(interval / time.Duration(rate))
		defer ticker.Stop()
		for range ticker.C {
			select {
			case tb.tokens <- struct{}{}:
			default:
			}
		}
	}()
	return tb
}

func (tb *TokenBucket) Allow() bool {
	select {
	case <-tb.tokens:
		return true
	default:
		return false
	}
}

// SecurityCheckMiddleware rejects oversized bodies and unexpected methods
// before any handler runs.
func SecurityCheckMiddleware(security config.SecurityConfig) app.HandlerFunc {
	allowed := make(map[string]bool, len(security.AllowedMethods))
	for _, m := range security.AllowedMethods {
		allowed[strings.ToUpper(m)] = true
	}

	return func(c context.Context, ctx *app.RequestContext) {
		if security.MaxBodySize > 0 && int64(ctx.Request.Header.ContentLength()) > security.MaxBodySize {
			securityResponse(ctx, "request body exceeds max size", 413)
			return
		}

		if len(allowed) > 0 && !allowed[string(ctx.Method())] {
			securityResponse(ctx, "method not allowed", 405)
			return
		}

		ctx.Next(c)
	}
}

func securityResponse(ctx *app.RequestContext, msg string, status int) {
	hlog.Warnf("SecurityAlert[status=%d]: %s", status, msg)
	ctx.AbortWithStatusJSON(status, model.ErrorRes{
		Status:  model.StatusFail,
		Message: msg,
	})
}
