// Package tracker reports unexpected server-side failures to Sentry.
// A Tracker without a DSN is a no-op, which is what development and tests use.
package tracker

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/getsentry/sentry-go"
)

type Tracker struct {
	enabled bool
}

// New initializes Sentry when dsn is set.
func New(dsn, environment string) *Tracker {
	if dsn == "" {
		hlog.Info("SENTRY_DSN not set, error reporting disabled")
		return &Tracker{}
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      environment,
		AttachStacktrace: true,
	})
	if err != nil {
		hlog.Warnf("Sentry initialization failed: %v", err)
		return &Tracker{}
	}
	return &Tracker{enabled: true}
}

// Enabled reports whether events are actually sent.
func (t *Tracker) Enabled() bool {
	return t != nil && t.enabled
}

// CaptureException records err with the request path as a tag.
func (t *Tracker) CaptureException(ctx context.Context, path string, err error) {
	if !t.Enabled() || err == nil {
		return
	}
	hub := sentry.CurrentHub().Clone()
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetContext("request", sentry.Context{"path": path})
		scope.SetTag("path", path)
		hub.CaptureException(err)
	})
}

// Flush waits for buffered events; call it on shutdown.
func (t *Tracker) Flush(timeout time.Duration) {
	if !t.Enabled() {
		return
	}
	sentry.Flush(timeout)
}
