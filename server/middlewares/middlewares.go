package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

var (
	// apiToken guards the façade when set. The daemon normally binds
	// loopback only, the token covers setups that expose it wider.
	apiToken string
)

// Setup initializes all package scoped variables that are needed to
// perform middleware functionalities. This function must be called
// before any middleware is used.
func Setup(token string) {
	apiToken = token
}

// LocalToken enforces the shared façade token. The token rides either
// the Authorization header or a "token" query parameter; the query form
// exists because EventSource cannot set headers on the SSE route.
func LocalToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiToken == "" {
			c.Next()
			return
		}

		supplied := c.Query("token")
		if header := c.GetHeader("Authorization"); header != "" {
			supplied = strings.TrimPrefix(header, "Bearer ")
		}
		if supplied != apiToken {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "missing or invalid api token",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
