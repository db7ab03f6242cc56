package middleware

import (
	"net/http"
	"strings"

	"github.com/Aurora-Nasa-1/101216MISoundBoost/api/controller"
	"github.com/Aurora-Nasa-1/101216MISoundBoost/util/tokenutil"
	"github.com/gin-gonic/gin"
)

const ContextSubjectKey = "x-subject"

// JwtAuthMiddleware 校验 Bearer 令牌；secret 为空时不做鉴权
func JwtAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		authHeader := c.Request.Header.Get("Authorization")
		t := strings.Split(authHeader, " ")
		if len(t) != 2 || !strings.EqualFold(t[0], "Bearer") {
			controller.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "Not authorized")
			c.Abort()
			return
		}

		subject, err := tokenutil.ExtractSubjectFromToken(t[1], secret)
		if err != nil {
			controller.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", err.Error())
			c.Abort()
			return
		}
		c.Set(ContextSubjectKey, subject)
		c.Next()
	}
}
