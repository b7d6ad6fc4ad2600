package di

import (
	"context"

	"github.com/Mrkivi24/onlycats/internal/config"
	"github.com/Mrkivi24/onlycats/internal/middleware"
	"github.com/Mrkivi24/onlycats/internal/modules"
	"github.com/Mrkivi24/onlycats/internal/modules/asset"
	"github.com/Mrkivi24/onlycats/internal/platform/redisx"
	"github.com/Mrkivi24/onlycats/internal/router"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type Application struct {
	Router  *router.Router
	Modules *modules.AppModules
}

func NewApplication(r *router.Router, m *modules.AppModules) *Application {
	return &Application{
		Router:  r,
		Modules: m,
	}
}

func provideAssetStore(ctx context.Context, cfg config.Config) (asset.Store, error) {
	return asset.NewFromConfig(ctx, cfg)
}

// provideRedis 返回的清理函数在关闭服务时断开连接。
func provideRedis(ctx context.Context, cfg config.Config) (*redis.Client, func()) {
	client := redisx.Open(ctx, cfg.Redis)
	return client, func() {
		if err := redisx.Close(client); err != nil {
			log.Warn().Err(err).Msg("关闭 Redis 失败")
		}
	}
}

func provideAuthorizer(cfg config.Config) (middleware.Authorizer, error) {
	return middleware.NewBasicAuthorizer(cfg.Admin)
}
