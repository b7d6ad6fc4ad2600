package asset

import (
	"context"
	"fmt"

	"github.com/Mrkivi24/onlycats/internal/config"
)

// NewFromConfig 根据 storage.driver 选择资源存储实现。
func NewFromConfig(ctx context.Context, cfg config.Config) (Store, error) {
	switch cfg.Storage.Driver {
	case "", "local":
		return NewLocalStore(cfg.Upload.Path, cfg.Upload.URLPrefix)
	case "minio":
		return NewMinIOStore(ctx, cfg.Storage.MinIO)
	default:
		return nil, fmt.Errorf("不支持的存储驱动: %s", cfg.Storage.Driver)
	}
}
