package gateway

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nutriscan/nutriscan/internal/session"
)

// publicPaths are reachable without a session and match exactly.
var publicPaths = []string{"/", "/login"}

// protectedPrefixes require a session and match the path and everything
// under it.
var protectedPrefixes = []string{
	"/dashboard",
	"/journal",
	"/scan",
	"/trends",
	"/settings",
	"/onboarding-profile",
	"/add",
}

func isPublicPath(path string) bool {
	for _, p := range publicPaths {
		if path == p {
			return true
		}
	}
	return false
}

func isProtectedPath(path string) bool {
	for _, prefix := range protectedPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// RouteGuard decides access from the auth_token cookie alone. It never
// verifies the token; a stale one just bounces off the first API call,
// which clears the session. Paths that are neither public nor protected
// pass through untouched.
func RouteGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		token, _ := c.Cookie(session.CookieName)
		authenticated := token != ""

		if authenticated && isPublicPath(path) {
			c.Redirect(http.StatusFound, "/dashboard")
			c.Abort()
			return
		}

		if !authenticated && isProtectedPath(path) {
			target := "/login?redirect=" + url.QueryEscape(path)
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}

		c.Next()
	}
}
