package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// DefaultBodyLimit 非上传接口的请求体上限 (2MB)
const DefaultBodyLimit int64 = 2 << 20

// multipartOverhead 为 multipart 边界与文本字段预留的空间
const multipartOverhead int64 = 1 << 20

// BodyLimitMiddleware 限制请求体大小，maxBytes <= 0 时使用 2MB
func BodyLimitMiddleware(maxBytes int64) gin.HandlerFunc {
	if maxBytes <= 0 {
		maxBytes = DefaultBodyLimit
	}
	return func(c *gin.Context) {
		// 使用 MaxBytesReader 限制读取的字节数
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// UploadBodyLimitMiddleware 限制上传接口的请求体大小，
// 声明的 Content-Length 超出时直接返回 413。
func UploadBodyLimitMiddleware(maxFileBytes int64) gin.HandlerFunc {
	maxBytes := maxFileBytes + multipartOverhead
	maxSizeMB := maxFileBytes >> 20

	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes && c.Request.ContentLength != -1 {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"success": false,
				"error":   fmt.Sprintf("图片大小不能超过 %dMB", maxSizeMB),
			})
			c.Abort()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
