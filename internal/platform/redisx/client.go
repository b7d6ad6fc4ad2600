package redisx

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Mrkivi24/onlycats/internal/config"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const defaultPrefix = "onlycats"

// Open 连接 Redis；未启用或不可用时返回 nil，调用方降级为内存模式。
func Open(ctx context.Context, cfg config.RedisConfig) *redis.Client {
	if !cfg.Enabled {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		log.Warn().Err(err).Str("addr", cfg.Addr).Msg("⚠️ Redis 不可用，降级为内存模式")
		return nil
	}

	log.Info().Str("addr", cfg.Addr).Int("db", cfg.DB).Msg("✅ Redis 已连接")
	return client
}

// Close 关闭 Redis 客户端连接，client 为 nil 时直接返回。
func Close(client *redis.Client) error {
	if client == nil {
		return nil
	}
	if err := client.Close(); err != nil {
		return fmt.Errorf("close redis failed: %w", err)
	}
	return nil
}

// Key 基于前缀拼接 Redis 键名，前缀为空时使用 onlycats。
func Key(prefix string, parts ...string) string {
	if prefix == "" {
		prefix = defaultPrefix
	}
	if len(parts) == 0 {
		return prefix
	}
	return prefix + ":" + strings.Join(parts, ":")
}
