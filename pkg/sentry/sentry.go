// pkg/sentry/sentry.go

// Package sentryutil wraps error tracking so the rest of the code never
// imports sentry-go directly. With an empty DSN everything becomes a no-op.
package sentryutil

import (
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
)

// Init configures the global Sentry client. Initialization failures are
// logged and swallowed: error tracking must never keep a report from
// being fetched.
func Init(dsn, environment, release string, logger *slog.Logger) {
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
		Release:     release,
	})
	if err != nil {
		logger.Warn("sentry init failed (non-blocking)", "error", err)
		return
	}
	if dsn == "" {
		logger.Debug("sentry DSN empty, error tracking disabled")
	} else {
		logger.Debug("sentry initialized", "environment", environment)
	}
}

// Flush waits briefly for buffered events to reach Sentry. Call it before
// the process exits.
func Flush() { sentry.Flush(2 * time.Second) }

// CaptureError reports err with the given tags. A nil err is ignored.
func CaptureError(err error, tags map[string]string) {
	if err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		sentry.CaptureException(err)
	})
}
