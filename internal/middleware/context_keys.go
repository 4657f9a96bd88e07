package middleware

import "github.com/gin-gonic/gin"

// actorKey stores the caller identity recorded in audit fields.
const actorKey = contextKey("actor")

// ActorHeader names the header a host puts the calling principal in. The
// ledger does not authenticate it; it only records it.
const ActorHeader = "X-Actor-ID"

// DefaultActor is recorded when a request carries no actor.
const DefaultActor = "system"

// ActorMiddleware copies the actor header into the Gin context.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := c.GetHeader(ActorHeader)
		if actor == "" {
			actor = DefaultActor
		}
		c.Set(string(actorKey), actor)
		c.Next()
	}
}

// GetActorFromContext retrieves the actor from the Gin context.
func GetActorFromContext(c *gin.Context) string {
	actorVal, exists := c.Get(string(actorKey))
	if !exists {
		return DefaultActor
	}
	actor, ok := actorVal.(string)
	if !ok || actor == "" {
		return DefaultActor
	}
	return actor
}
