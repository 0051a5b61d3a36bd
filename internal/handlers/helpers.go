package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// clientIP — IP устройства для device-binding у провайдера:
// первый элемент X-Forwarded-For, иначе адрес соединения.
func clientIP(c *gin.Context) string {
	if fwd := strings.TrimSpace(c.GetHeader("X-Forwarded-For")); fwd != "" {
		if idx := strings.Index(fwd, ","); idx >= 0 {
			return strings.TrimSpace(fwd[:idx])
		}
		return fwd
	}
	return c.ClientIP()
}
