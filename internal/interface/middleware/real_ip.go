package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

func parseIP(s string) string {
	if ip := net.ParseIP(strings.TrimSpace(s)); ip != nil {
		return ip.String()
	}
	return ""
}

// RealIP stores the client IP under "real_ip" for limiter keys and logs.
// Sources in order: CF-Connecting-IP, left-most X-Forwarded-For, X-Real-IP,
// then gin's ClientIP.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := parseIP(c.GetHeader("CF-Connecting-IP"))
		if ip == "" {
			first, _, _ := strings.Cut(c.GetHeader("X-Forwarded-For"), ",")
			ip = parseIP(first)
		}
		if ip == "" {
			ip = parseIP(c.GetHeader("X-Real-IP"))
		}
		if ip == "" {
			ip = c.ClientIP()
		}
		c.Set("real_ip", ip)
		c.Next()
	}
}
