package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	userdomain "github.com/cafepos/cafe-api-server/internal/domains/users/domain"
	userports "github.com/cafepos/cafe-api-server/internal/domains/users/ports"
	sharederrors "github.com/cafepos/cafe-api-server/internal/shared/errors"
)

const principalKey = "auth.principal"

// RequireAuth resolves the bearer token and stores the principal on the
// request context. Requests without a valid session are rejected.
func RequireAuth(service userports.Service) gin.HandlerFunc {
	responder := sharederrors.NewResponder("")
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			responder.Unauthorized(c, "missing bearer token")
			c.Abort()
			return
		}
		user, err := service.Authenticate(c.Request.Context(), token)
		if err != nil {
			responder.Unauthorized(c, "invalid or expired session")
			c.Abort()
			return
		}
		c.Set(principalKey, user)
		c.Next()
	}
}

// RequireAdmin rejects requests whose principal is not an admin. Mount after
// RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	responder := sharederrors.NewResponder("")
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsAdmin() {
			responder.Respond(c, sharederrors.ProblemDetail{
				Type:   sharederrors.TypeUnauthorized,
				Title:  "Forbidden",
				Status: http.StatusForbidden,
				Detail: "admin role required",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated principal, nil when absent.
func CurrentUser(c *gin.Context) *userdomain.User {
	value, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	user, _ := value.(*userdomain.User)
	return user
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	return strings.TrimSpace(c.GetHeader("X-Session-Token"))
}
