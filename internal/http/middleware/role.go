package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const authDisabledKey = "authDisabled"

// RequireRoles only lets requests through whose role, set by Authenticate, is
// one of allowedRoles. It is a no-op when Authenticate ran with auth disabled.
//
//	r.PATCH("/tickets/:id", Authenticate(auth), RequireRoles("admin"), handler)
func RequireRoles(allowedRoles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[strings.ToLower(strings.TrimSpace(r))] = struct{}{}
	}

	return func(c *gin.Context) {
		if c.GetBool(authDisabledKey) {
			c.Next()
			return
		}

		role := c.GetString(userRoleKey)
		if role == "" {
			abortJSON(c, http.StatusUnauthorized, "UNAUTHORIZED", "no role on request")
			return
		}
		if _, ok := allowed[strings.ToLower(strings.TrimSpace(role))]; !ok {
			abortJSON(c, http.StatusForbidden, "FORBIDDEN", "role not allowed")
			return
		}
		c.Next()
	}
}
