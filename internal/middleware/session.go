package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/classroom-client/pkg/errors"
	"github.com/noah-isme/classroom-client/pkg/response"
)

// ContextAuthenticatedKey is the gin context key set once a cached session was found.
const ContextAuthenticatedKey = "sessionAuthenticated"

type sessionChecker interface {
	Authenticated(ctx context.Context) bool
}

// RequireSession rejects requests with AUTH_REQUIRED while no session token is cached.
func RequireSession(session sessionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if session == nil || !session.Authenticated(c.Request.Context()) {
			response.Error(c, appErrors.Clone(appErrors.ErrAuthRequired, ""))
			c.Abort()
			return
		}
		c.Set(ContextAuthenticatedKey, true)
		c.Next()
	}
}
