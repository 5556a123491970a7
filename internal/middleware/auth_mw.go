package middleware

import (
	"net/http"
	"strings"

	"user_service/internal/common"
	"user_service/internal/utils"

	"github.com/gin-gonic/gin"
)

// AuthUserKey is the gin context key under which the authenticated subject
// is stored for downstream handlers.
const AuthUserKey = "authUser"

// Public endpoints reachable without a token.
var (
	publicExact = []string{
		"/auth/login",
		"/auth/register",
		"/auth/refresh",
		"/doc.html",
	}
	publicPrefixes = []string{
		"/swagger",
		"/v3/api-docs",
		"/swagger-ui/",
		"/swagger-resources/",
		"/webjars/",
		"/actuator/",
	}
)

func isPublicPath(path string) bool {
	for _, p := range publicExact {
		if path == p {
			return true
		}
	}
	for _, p := range publicPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// AuthMiddleware gates every non-public request on a valid bearer token and
// binds the resolved subject into the request context.
func AuthMiddleware(jwtUtil *utils.JWTUtil) gin.HandlerFunc {
	return func(c *gin.Context) {
		if isPublicPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		token := extractToken(c)
		if token == "" {
			reject(c, "Token is missing")
			return
		}

		subject, err := jwtUtil.SubjectFromToken(token)
		if err != nil {
			reject(c, "Invalid token")
			return
		}

		expired, err := jwtUtil.IsExpired(token)
		if err != nil {
			reject(c, "Invalid token")
			return
		}
		if expired {
			reject(c, "Expired token")
			return
		}

		if subject == "" || !jwtUtil.ValidateToken(token, subject) {
			reject(c, "Invalid token")
			return
		}

		c.Set(AuthUserKey, subject)
		c.Next()
	}
}

func reject(c *gin.Context, reason string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, common.ErrCode(common.Unauthorized.Code, reason))
}

// extractToken pulls the bearer token from the Authorization header.
// The "Bearer " prefix is matched case-sensitively.
func extractToken(c *gin.Context) string {
	const prefix = "Bearer "
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, prefix) {
		return header[len(prefix):]
	}
	return ""
}
