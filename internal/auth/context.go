package auth

import "context"

// Roles allowed to mutate stock.
const (
	RoleAdmin   = "ADMIN"
	RoleManager = "MANAGER"
)

type contextKey string

const userContextKey contextKey = "user_context"

type UserContext struct {
	UserID string
	Role   string
}

func WithUser(ctx context.Context, uc *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, uc)
}

// GetUser returns the authenticated actor, or nil if the request is anonymous.
func GetUser(ctx context.Context) *UserContext {
	if uc, ok := ctx.Value(userContextKey).(*UserContext); ok {
		return uc
	}
	return nil
}

// GetUserID helper for movement attribution.
func GetUserID(ctx context.Context) string {
	if uc := GetUser(ctx); uc != nil {
		return uc.UserID
	}
	return ""
}
