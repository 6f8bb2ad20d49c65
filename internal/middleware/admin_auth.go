package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"movie-page-service/internal/model"

	"github.com/gin-gonic/gin"
)

// AdminAuth returns a middleware that validates the admin API key.
// If apiKey is empty, authentication is disabled.
func AdminAuth(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			c.Next()
			return
		}

		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			// 也支持从查询参数获取（方便测试）
			token = c.Query("api_key")
		}

		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, model.APIResponse{
				Code:  http.StatusUnauthorized,
				Error: "unauthorized: missing API key",
			})
			return
		}

		if subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, model.APIResponse{
				Code:  http.StatusForbidden,
				Error: "forbidden: invalid API key",
			})
			return
		}

		c.Next()
	}
}

// bearerToken strips a "Bearer " or "ApiKey " scheme from an Authorization header
func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	for _, scheme := range []string{"Bearer ", "ApiKey "} {
		if len(header) > len(scheme) && strings.EqualFold(header[:len(scheme)], scheme) {
			return strings.TrimSpace(header[len(scheme):])
		}
	}
	return header
}
