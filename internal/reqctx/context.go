// Package reqctx carries per-request correlation values through context.Context
// so log lines below the handler layer can be tied to a request.
package reqctx

import "context"

type ctxKey string

const (
	keyRID    ctxKey = "rid"
	keyUserID ctxKey = "user_id"
)

func WithRID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, keyRID, rid)
}

// RID returns the request id, or "-" when none was attached.
func RID(ctx context.Context) string {
	if v, ok := ctx.Value(keyRID).(string); ok && v != "" {
		return v
	}
	return "-"
}

func WithUserID(ctx context.Context, id uint64) context.Context {
	return context.WithValue(ctx, keyUserID, id)
}

// UserID returns the authenticated user id if present.
func UserID(ctx context.Context) (uint64, bool) {
	v, ok := ctx.Value(keyUserID).(uint64)
	return v, ok && v != 0
}
