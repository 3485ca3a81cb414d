// auth_middleware.go
package middleware

import (
	"net/http"
	"strings"

	"quickeats-order-service/internal/dto"
	"quickeats-order-service/internal/model"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID   = "userID"
	ctxUserRole = "userRole"
)

type TokenValidator interface {
	ValidateToken(raw string) (model.Actor, error)
}

// Protect rejects requests without a valid bearer token and stores the
// caller's id and role in the gin context.
func Protect(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.Fail("not authorized, no token"))
			return
		}

		actor, err := validator.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.Fail("not authorized, token failed"))
			return
		}

		c.Set(ctxUserID, actor.ID)
		c.Set(ctxUserRole, string(actor.Role))
		c.Next()
	}
}

// Actor returns the caller stored by Protect.
func Actor(c *gin.Context) model.Actor {
	return model.Actor{
		ID:   c.GetString(ctxUserID),
		Role: model.Role(c.GetString(ctxUserRole)),
	}
}
