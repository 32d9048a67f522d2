package reqctx

import (
	"context"
	"strings"
)

type ctxKey string

const ctxRequestID ctxKey = "request_id"

// WithRequestID is called by HTTP middleware to inject request_id into context.
func WithRequestID(ctx context.Context, id string) context.Context {
	id = strings.TrimSpace(id)
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, ctxRequestID, id)
}

// RequestID reads the request id if present, "" otherwise.
func RequestID(ctx context.Context) string {
	if v := ctx.Value(ctxRequestID); v != nil {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
