package server

import (
	authdomain "github.com/fahimshariar28/eidi/internal/auth/domain"
	"github.com/gin-gonic/gin"
)

const contextPrincipalKey = "principal"

func serveIndex(c *gin.Context) {
	c.File("./public/index.html")
}

// WebAuthRequired resolves the session cookie into a principal and stores
// it on the request context. Requests without a valid session are rejected.
func (s *Server) WebAuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := s.sessions.ReadToken(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		principal, err := s.authsvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(contextPrincipalKey, principal)
		c.Next()
	}
}

func principalFrom(c *gin.Context) (*authdomain.Principal, bool) {
	value, ok := c.Get(contextPrincipalKey)
	if !ok {
		return nil, false
	}
	principal, ok := value.(*authdomain.Principal)
	return principal, ok
}
