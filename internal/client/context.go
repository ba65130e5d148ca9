package client

import "context"

type contextKey int

const requestIDKey contextKey = iota

// WithRequestID tags the context so every backend call belonging to one
// pipeline invocation carries the same X-Request-ID header.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
