package router

import (
	"github.com/Mrkivi24/onlycats/internal/config"
	"github.com/Mrkivi24/onlycats/internal/consts"
	"github.com/Mrkivi24/onlycats/internal/middleware"
	"github.com/Mrkivi24/onlycats/internal/modules"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type Router struct {
	modules    *modules.AppModules
	authorizer middleware.Authorizer
	redis      *redis.Client
	cfg        config.Config
}

// NewRouter redisClient 可为 nil，此时限流使用进程内存。
func NewRouter(cfg config.Config, appModules *modules.AppModules, authorizer middleware.Authorizer, redisClient *redis.Client) *Router {
	return &Router{
		modules:    appModules,
		authorizer: authorizer,
		redis:      redisClient,
		cfg:        cfg,
	}
}

func (rt *Router) Init(r *gin.Engine) {
	r.Use(middleware.RequestLogger())
	r.Use(middleware.PrometheusMiddleware())
	// 注册全局安全标头中间件
	r.Use(middleware.SecurityHeaders(rt.cfg.Storage.MinIO.PublicURL))

	h := rt.modules.Picture.Handler
	api := r.Group("/api")

	// 上传接口使用独立的请求体上限，不经过通用限制
	api.POST("/upload",
		rt.rateLimiter("upload", rt.cfg.RateLimit.UploadRPS, rt.cfg.RateLimit.UploadBurst),
		middleware.UploadBodyLimitMiddleware(consts.MaxUploadSize),
		h.UploadPicture,
	)

	limited := api.Group("")
	// 应用请求体大小限制中间件
	limited.Use(middleware.BodyLimitMiddleware(middleware.DefaultBodyLimit))

	likeLimiter := rt.rateLimiter("like", rt.cfg.RateLimit.LikeRPS, rt.cfg.RateLimit.LikeBurst)

	registerPublicRoutes(limited, likeLimiter, h)
	registerAdminRoutes(limited, rt.authorizer, h)
	registerSystemRoutes(r, rt.cfg)
}

// rateLimiter 限流关闭时返回直接放行的中间件。
func (rt *Router) rateLimiter(scope string, rps float64, burst int) gin.HandlerFunc {
	if !rt.cfg.RateLimit.Enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return middleware.RateLimitMiddleware(middleware.RateLimitOptions{
		Scope:     scope,
		RPS:       rps,
		Burst:     burst,
		Redis:     rt.redis,
		KeyPrefix: rt.cfg.Redis.Prefix,
	})
}
