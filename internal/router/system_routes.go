package router

import (
	"net/http"
	"strings"

	"github.com/Mrkivi24/onlycats/internal/config"
	"github.com/Mrkivi24/onlycats/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func registerSystemRoutes(r *gin.Engine, cfg config.Config) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "API not found"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Not found"})
	})

	// 对象存储由其公开地址直接提供图片，仅本地存储需要静态服务
	if cfg.Storage.Driver != "" && cfg.Storage.Driver != "local" {
		return
	}
	prefix := strings.TrimSuffix(cfg.Upload.URLPrefix, "/")
	if prefix == "" {
		prefix = "/images"
	}
	// 使用带缓存控制的静态文件服务，不列目录
	r.Group(prefix, middleware.StaticCacheMiddleware(cfg.Upload.StaticCacheControl)).
		StaticFS("/", gin.Dir(cfg.Upload.Path, false))
}
