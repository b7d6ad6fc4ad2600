package middleware

import "github.com/gin-gonic/gin"

// StaticCacheMiddleware 为静态图片资源添加 Cache-Control 头，cacheControl 为空时不设置。
// 资源名全局唯一且内容不会被覆盖，适合较长的缓存时间。
func StaticCacheMiddleware(cacheControl string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cacheControl != "" {
			c.Header("Cache-Control", cacheControl)
		}
		c.Next()
	}
}
