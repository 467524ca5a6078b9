package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/roomvoice/feedback_backend/utils"
)

// ServiceAuth gates the admin API surface behind the shared-secret service
// token. The bot is the intended holder; admin identity checks happen at
// the conversation boundary, this only keeps the surface off the open
// internet.
func ServiceAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required", "kind": "unauthorized"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid Authorization header format", "kind": "unauthorized"})
			c.Abort()
			return
		}

		if err := utils.ValidateServiceToken(parts[1]); err != nil {
			logrus.Warnf("Service auth rejected: %v", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token", "kind": "unauthorized"})
			c.Abort()
			return
		}

		c.Next()
	}
}
