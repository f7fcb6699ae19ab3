package middleware

import (
	"context"
	"strings"

	"connectrpc.com/connect"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// SessionIDKey is the context key for the calculator session ID.
	SessionIDKey contextKey = "session_id"

	// SessionHeader carries the session ID for clients that prefer headers
	// over the sessionId message field.
	SessionHeader = "Tipsplit-Session"
)

// GetSessionID extracts the session ID from the context.
// Returns empty string if not found.
func GetSessionID(ctx context.Context) string {
	id, _ := ctx.Value(SessionIDKey).(string)
	return id
}

// WithSessionID returns a copy of ctx carrying the session ID.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, SessionIDKey, id)
}

// SessionFromHeader returns an interceptor that copies the Tipsplit-Session
// header into the request context. Requests without the header pass through.
func SessionFromHeader() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if id := strings.TrimSpace(req.Header().Get(SessionHeader)); id != "" {
				ctx = WithSessionID(ctx, id)
			}
			return next(ctx, req)
		}
	}
}
