// Package userctx carries the authenticated user id through request contexts.
package userctx

import (
	"context"
	"strings"
)

type contextKey string

const userIDContextKey contextKey = "user_id"

// DefaultUserID owns every profile when auth is off.
const DefaultUserID = "default"

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDContextKey).(string)
	return userID, ok
}

// OwnerID returns the request user or DefaultUserID.
func OwnerID(ctx context.Context) string {
	if userID, ok := GetUserID(ctx); ok && strings.TrimSpace(userID) != "" {
		return userID
	}
	return DefaultUserID
}
