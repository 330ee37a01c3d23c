package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	authdomain "github.com/techdrop/catalog/internal/auth/domain"
)

const contextIdentityKey = "auth.identity"

// AdminRequired gates mutating routes behind a valid admin token in the
// session cookie. It never touches the database: the token is self-contained.
func (s *Server) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := s.sessions.ReadToken(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		identity, err := s.authService.Authenticate(raw)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		if identity.Role != authdomain.RoleAdmin {
			AbortWithError(c, ErrForbidden)
			return
		}

		c.Set(contextIdentityKey, identity)
		c.Next()
	}
}

// CORSMiddleware allows the configured client origin to send credentialed
// requests. A wildcard origin cannot be combined with credentials, so the
// origin is always echoed verbatim.
func CORSMiddleware(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Vary", "Origin")
		}

		if c.Request.Method == http.MethodOptions {
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type, X-Request-Id")
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
