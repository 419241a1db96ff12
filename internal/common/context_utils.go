package common

import (
	"context"

	"zoorequest/internal/models"
)

type contextKey string

// CallerKey holds the authenticated *models.User for the request, when the
// session cookie resolved. Absent for anonymous callers.
const CallerKey contextKey = "caller"

// WithCaller returns ctx carrying the resolved caller identity.
func WithCaller(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, CallerKey, user)
}

// GetCallerFromContext extracts the caller; ok is false for anonymous
// requests.
func GetCallerFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(CallerKey).(*models.User)
	return user, ok && user != nil
}
