package core

import "context"

type contextKey string

const (
	ctxKeyIPAddress contextKey = "audit_ip"
	ctxKeyUserAgent contextKey = "audit_ua"
	ctxKeyActor     contextKey = "audit_actor"
)

// ContextWithIPAddress adds the client IP to ctx for audit logging.
func ContextWithIPAddress(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ctxKeyIPAddress, ip)
}

// ContextWithUserAgent adds the User-Agent to ctx for audit logging.
func ContextWithUserAgent(ctx context.Context, ua string) context.Context {
	return context.WithValue(ctx, ctxKeyUserAgent, ua)
}

// ContextWithActor records the signed-in admin performing the request.
func ContextWithActor(ctx context.Context, admin AdminUser) context.Context {
	return context.WithValue(ctx, ctxKeyActor, admin)
}

// GetIPAddressFromContext extracts the client IP from ctx.
func GetIPAddressFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyIPAddress).(string); ok {
		return v
	}
	return ""
}

// GetUserAgentFromContext extracts the User-Agent from ctx.
func GetUserAgentFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyUserAgent).(string); ok {
		return v
	}
	return ""
}

// ActorFromContext returns the admin stored by ContextWithActor.
func ActorFromContext(ctx context.Context) (AdminUser, bool) {
	admin, ok := ctx.Value(ctxKeyActor).(AdminUser)
	return admin, ok
}

// actorName is the audit actor for ctx: the admin's e-mail or "public".
func actorName(ctx context.Context) string {
	if admin, ok := ActorFromContext(ctx); ok {
		return admin.Email
	}
	return "public"
}
