package httpx

import "context"

type ctxKey string

const (
	// CtxKeyClient holds the authenticated client name after
	// ClientAuthMiddleware has run.
	CtxKeyClient ctxKey = "client"
)

// ClientFromContext returns the authenticated client name, or "" when the
// request was not client-authenticated.
func ClientFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyClient).(string); ok {
		return v
	}
	return ""
}
