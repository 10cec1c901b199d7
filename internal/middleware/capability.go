package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/minhtran-dev/taskdesk/internal/auth"
	apierrors "github.com/minhtran-dev/taskdesk/internal/errors"
)

// RequireCapability rejects requests whose role lacks the given action.
// Must run after RequireActiveAccount, which puts the role in context.
func RequireCapability(action auth.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetRole(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if !auth.Can(role, action) {
			apierrors.Authorization(c, "Your role does not allow this action")
			c.Abort()
			return
		}

		c.Next()
	}
}
