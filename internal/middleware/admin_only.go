// admin_only.go
package middleware

import (
	"fmt"
	"net/http"

	"quickeats-order-service/internal/dto"
	"quickeats-order-service/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

// Authorize lets the request through only for the given roles. It must run
// after Protect.
func Authorize(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := Actor(c).Role
		if !lo.Contains(roles, role) {
			msg := fmt.Sprintf("user role %s is not authorized to access this route", lo.CoalesceOrEmpty(string(role), "unknown"))
			c.AbortWithStatusJSON(http.StatusForbidden, dto.Fail(msg))
			return
		}
		c.Next()
	}
}

func AdminOnly() gin.HandlerFunc {
	return Authorize(model.RoleAdmin)
}
