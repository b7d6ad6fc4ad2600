package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// SecurityHeaders 添加安全相关的 HTTP 响应头。
// imgSources 为额外允许的图片来源，例如对象存储的公开地址。
func SecurityHeaders(imgSources ...string) gin.HandlerFunc {
	img := "'self' data: blob:"
	for _, src := range imgSources {
		if src = strings.TrimSpace(src); src != "" {
			img += " " + src
		}
	}
	csp := "default-src 'self'; img-src " + img + "; style-src 'self' 'unsafe-inline'; script-src 'self';"

	return func(c *gin.Context) {
		// 防止浏览器猜测内容类型
		c.Header("X-Content-Type-Options", "nosniff")

		// 防止点击劫持 (Clickjacking)
		c.Header("X-Frame-Options", "DENY")

		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", csp)

		c.Next()
	}
}
