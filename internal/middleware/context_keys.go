package middleware

import (
	"context"

	"github.com/SscSPs/waqf_ledger/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// actorCtxKey is the key used to store the authenticated caller in the request context.
const actorCtxKey = contextKey("actor")

// WithActor returns a copy of ctx carrying the authenticated caller.
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorCtxKey, actor)
}

// GetActorFromCtx retrieves the authenticated caller from a standard context.
func GetActorFromCtx(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorCtxKey).(domain.Actor)
	return actor, ok
}

// GetActorFromContext retrieves the authenticated caller from the Gin request.
// It returns the actor and a boolean indicating if it was found.
func GetActorFromContext(c *gin.Context) (domain.Actor, bool) {
	return GetActorFromCtx(c.Request.Context())
}
