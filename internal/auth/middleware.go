package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const CtxVisitorIDKey = "visitor_id"

// StoreResolver finds the calling visitor's session store.
type StoreResolver func(c *gin.Context) (*Store, error)

func VisitorMiddleware(jwtMgr *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		token := strings.TrimPrefix(h, "Bearer ")
		claims, err := jwtMgr.ParseVisitor(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid visitor token"})
			return
		}
		c.Set(CtxVisitorIDKey, claims.VisitorID)
		c.Next()
	}
}

// VisitorID is only set behind VisitorMiddleware.
func VisitorID(c *gin.Context) string {
	return c.GetString(CtxVisitorIDKey)
}

// RequireAdmin lets through visitors whose current session is an admin.
func RequireAdmin(resolve StoreResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := resolve(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to load session"})
			return
		}
		p, ok := s.Current()
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": Message(ErrNotAuthenticated)})
			return
		}
		if !p.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
