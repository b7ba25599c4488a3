package middleware

import "github.com/gin-gonic/gin"

// actorHeader carries the acting user's identifier. Authentication itself is
// handled upstream of this service; we only record who acted for audit trails.
const actorHeader = "X-Actor-ID"

// systemActor is recorded when no actor header is supplied (seed scripts,
// bulk jobs, service-to-service calls).
const systemActor = "system"

// GetActorFromContext returns the acting user id for audit records.
func GetActorFromContext(c *gin.Context) string {
	if actor := c.GetHeader(actorHeader); actor != "" {
		return actor
	}
	return systemActor
}
