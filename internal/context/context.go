package context

import "context"

type userIDKey struct{}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey{}).(string)
	return userID, ok && userID != ""
}

// MustUserIDFromContext panics when the request did not pass through AuthMiddleware.
func MustUserIDFromContext(ctx context.Context) string {
	userID, ok := UserIDFromContext(ctx)
	if !ok {
		panic("user id is missing in context")
	}
	return userID
}
