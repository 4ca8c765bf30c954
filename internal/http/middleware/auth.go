package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"busticket/internal/domain"
)

const (
	userRoleKey    = "userRole"
	userSubjectKey = "userSubject"
)

// TokenParser verifies a bearer token.
type TokenParser interface {
	Enabled() bool
	ParseToken(raw string) (domain.RequestContext, error)
}

// Authenticate requires a valid bearer token when auth is enabled and stores the
// caller's role for RequireRoles. With auth disabled the route stays open.
func Authenticate(auth TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if auth == nil || !auth.Enabled() {
			c.Set(authDisabledKey, true)
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			abortJSON(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token")
			return
		}
		rc, err := auth.ParseToken(strings.TrimSpace(raw))
		if err != nil {
			abortJSON(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token")
			return
		}
		c.Set(userRoleKey, rc.Role)
		c.Set(userSubjectKey, rc.Subject)
		c.Next()
	}
}

// CurrentUser returns the authenticated caller, if any.
func CurrentUser(c *gin.Context) (domain.RequestContext, bool) {
	role := c.GetString(userRoleKey)
	if role == "" {
		return domain.RequestContext{}, false
	}
	return domain.RequestContext{Subject: c.GetString(userSubjectKey), Role: role}, true
}

func abortJSON(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success":    false,
		"error":      msg,
		"code":       code,
		"request_id": GetRequestID(c),
	})
}
