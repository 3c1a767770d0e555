package middleware

import "context"

type contextKey string

const (
	ctxActor    contextKey = "actor"
	ctxClientIP contextKey = "client_ip"
)

const (
	ActorPublic = "public"
	ActorAdmin  = "admin"
)

// ActorFromContext reports who is calling: ActorAdmin once the PIN guard has
// passed, ActorPublic otherwise.
func ActorFromContext(ctx context.Context) string {
	if ctx == nil {
		return ActorPublic
	}
	if v, ok := ctx.Value(ctxActor).(string); ok && v != "" {
		return v
	}
	return ActorPublic
}

// WithActor injects the actor into the context.
func WithActor(ctx context.Context, actor string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxActor, actor)
}

func ClientIPFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxClientIP).(string); ok {
		return v
	}
	return ""
}
