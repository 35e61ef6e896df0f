package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/school-records-api/pkg/errors"
	"github.com/noah-isme/school-records-api/pkg/response"
)

// RBAC allows the request when the authenticated role is one of allowed.
// Role names compare case-insensitively.
func RBAC(allowed ...string) gin.HandlerFunc {
	roles := roleSet(allowed)
	return func(c *gin.Context) {
		claims, ok := CurrentUser(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		if _, ok := roles[strings.ToLower(claims.Role)]; ok {
			c.Next()
			return
		}

		response.Error(c, appErrors.ErrForbidden)
		c.Abort()
	}
}

// RequireWriteRoles lets reads through and restricts mutating methods to
// the given roles.
func RequireWriteRoles(roles ...string) gin.HandlerFunc {
	check := RBAC(roles...)
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
		default:
			check(c)
		}
	}
}

func roleSet(roles []string) map[string]struct{} {
	set := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		set[strings.ToLower(strings.TrimSpace(r))] = struct{}{}
	}
	return set
}
