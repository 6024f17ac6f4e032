// Package utils provides general-purpose helpers shared by the sync client and
// the reference server: type-safe context keys, JSON response writing, the
// resty-based HTTP client, API token helpers and run id generation.
package utils

import (
	"context"
)

// contextKey is a private type for context keys so they cannot collide with
// string keys set by other packages.
type contextKey string

func (c contextKey) String() string {
	return string(c)
}

// UserIDCtxKey stores the authenticated user id on the reference server.
var UserIDCtxKey = contextKey("userID")

// RunIDCtxKey stores the id of the sync run a context belongs to.
var RunIDCtxKey = contextKey("runID")

// GetUserIDFromContext retrieves the user id stored under [UserIDCtxKey].
// ok is false when the value is missing or not an int64.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(int64)
	return userID, ok
}

// WithRunID returns a copy of ctx carrying runID.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDCtxKey, runID)
}

// GetRunIDFromContext retrieves the sync run id, or "" when none is set.
func GetRunIDFromContext(ctx context.Context) string {
	runID, _ := ctx.Value(RunIDCtxKey).(string)
	return runID
}
