package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rizqidamar/timely/internal/application"
	"github.com/rizqidamar/timely/pkg/response"
)

const CtxUserIDKey = "userID"

// Auth validates the bearer access token and injects the subject into the
// Gin context. Denial is uniform: callers cannot tell a missing token from
// an expired or mistyped one.
func Auth(auth application.AuthSecurity) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Error[any](c, http.StatusUnauthorized, "missing access token", nil)
			c.Abort()
			return
		}
		claims, err := auth.ParseToken(token, application.TokenAccess)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "invalid access token", nil)
			c.Abort()
			return
		}
		sub, _ := claims["sub"].(string)
		email, _ := claims["email"].(string)
		c.Set(CtxUserIDKey, sub)
		c.Set("userEmail", email)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
