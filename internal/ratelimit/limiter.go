// Package ratelimit limits how often a client may perform an action within a
// sliding time window.
package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of a single Allow call.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Limiter decides whether the client identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// DefaultWindow replaces a non-positive window, which would otherwise expire
// every hit immediately.
const DefaultWindow = time.Minute

func normalizeWindow(window time.Duration) time.Duration {
	if window <= 0 {
		return DefaultWindow
	}
	return window
}

func normalizeKey(key string) string {
	if key == "" {
		return "unknown"
	}
	return key
}
