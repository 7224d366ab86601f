package httpserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"shopapi/internal/domain"
)

const (
	sessionHeader = "X-Session-Token"

	ctxUserKey  = "httpserver.user"
	ctxOwnerKey = "httpserver.owner"
)

// identityMiddleware resolves the caller identity. A valid bearer token binds
// the request to that user; otherwise the session token header scopes it, and
// a fresh session token is minted and echoed back when the client sent none.
func identityMiddleware(users UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := bearerToken(c); raw != "" {
			u, err := users.LookupByToken(c.Request.Context(), raw)
			if err != nil {
				writeError(c, err)
				c.Abort()
				return
			}
			c.Set(ctxUserKey, u)
			c.Set(ctxOwnerKey, domain.UserOwner(u.ID))
			c.Next()
			return
		}

		session := strings.TrimSpace(c.GetHeader(sessionHeader))
		if session == "" {
			session = uuid.NewString()
		}
		c.Header(sessionHeader, session)
		c.Set(ctxOwnerKey, domain.SessionOwner(session))
		c.Next()
	}
}

// requireUser rejects requests that resolved to an anonymous session.
func requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentUser(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody("unauthorized", "authentication required"))
			return
		}
		c.Next()
	}
}

// requireAdmin rejects authenticated callers without the admin role.
func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !currentUser(c).IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, errorBody("forbidden", "admin role required"))
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func currentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*domain.User)
	return u
}

func currentOwner(c *gin.Context) domain.Owner {
	v, ok := c.Get(ctxOwnerKey)
	if !ok {
		return domain.Owner{}
	}
	owner, _ := v.(domain.Owner)
	return owner
}
