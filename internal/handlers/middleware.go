package handlers

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	apiKeyHeader = "X-Api-Key"
	apiKeyQuery  = "api_key" // browsers cannot set headers on a WebSocket handshake
)

func (h *Handler) apiKeyMiddleware(c *gin.Context) {
	if h.apiKey == "" {
		c.Next()
		return
	}

	key := c.GetHeader(apiKeyHeader)
	if key == "" && c.FullPath() == "/ws" {
		key = c.Query(apiKeyQuery)
	}
	if key == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "missing X-Api-Key header",
		})
		return
	}
	if subtle.ConstantTimeCompare([]byte(key), []byte(h.apiKey)) != 1 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid api key",
		})
		return
	}
	c.Next()
}
