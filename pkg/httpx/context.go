package httpx

import "context"

type ctxKey string

const (
	CtxKeyUserID    ctxKey = "user_id"
	CtxKeyRole      ctxKey = "role"
	CtxKeySessionID ctxKey = "session_id"
	CtxKeyClaims    ctxKey = "claims" // full jwtx.Claims if needed
)

func roleFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyRole).(string); ok {
		return v
	}
	return ""
}

// UserIDFromContext returns the authenticated user's id, or "" when the
// request was not authenticated.
func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUserID).(string); ok {
		return v
	}
	return ""
}

// RoleFromContext returns the authenticated user's role, or "" when the
// request was not authenticated.
func RoleFromContext(ctx context.Context) string {
	return roleFromCtx(ctx)
}

// SessionIDFromContext returns the session id bound to the credential.
func SessionIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeySessionID).(string); ok {
		return v
	}
	return ""
}
