package router

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"minimarket/controllers"

	"github.com/gin-gonic/gin"
)

// TokenCookie carries the shared token for browser sessions on the admin pages.
const TokenCookie = "minimarket_token"

// Authorizer blocks access without the shared token. An empty token
// disables the check; OPTIONS always passes.
//
// The token is read from X-API-Token, a Bearer Authorization header or
// the session cookie. A GET carrying ?token= sets the cookie so a browser
// opening the panel once keeps access.
func Authorizer(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" || c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		got, fromQuery := presented(c)
		if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			controllers.RespondError(c, "No autorizado", http.StatusUnauthorized)
			c.Abort()
			return
		}
		if fromQuery {
			c.SetSameSite(http.SameSiteStrictMode)
			c.SetCookie(TokenCookie, token, 0, "/", "", c.Request.TLS != nil, true)
		}
		c.Next()
	}
}

func presented(c *gin.Context) (string, bool) {
	if v := c.GetHeader("X-API-Token"); v != "" {
		return v, false
	}
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer "), false
	}
	if v, err := c.Cookie(TokenCookie); err == nil && v != "" {
		return v, false
	}
	if c.Request.Method == http.MethodGet {
		if v := c.Query("token"); v != "" {
			return v, true
		}
	}
	return "", false
}
