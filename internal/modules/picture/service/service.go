package service

import (
	"context"
	"errors"
	"time"

	"github.com/Mrkivi24/onlycats/internal/common"
	"github.com/Mrkivi24/onlycats/internal/model"
	"github.com/Mrkivi24/onlycats/internal/modules/asset"
	"github.com/Mrkivi24/onlycats/internal/modules/picture/repo"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const defaultOpTimeout = 5 * time.Second

type Service struct {
	store     repo.PictureStore
	assets    asset.Store
	opTimeout time.Duration
	validate  *validator.Validate
}

// New 创建图片目录服务；opTimeout 限制每次存储操作的最长耗时，<= 0 时使用 5s。
func New(store repo.PictureStore, assets asset.Store, opTimeout time.Duration) *Service {
	if opTimeout <= 0 {
		opTimeout = defaultOpTimeout
	}
	return &Service{
		store:     store,
		assets:    assets,
		opTimeout: opTimeout,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
	}
}

// ImagePath 返回图片资源的对外访问路径。
func (s *Service) ImagePath(picture *model.Picture) string {
	return s.assets.PublicURL(picture.AssetPath)
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.opTimeout)
}

// detachedTimeout 用于补偿类操作：即使请求已取消也要执行完。
func (s *Service) detachedTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), s.opTimeout)
}

// translateStoreError 将仓储层错误转换为业务错误。
func translateStoreError(err error, message string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrPictureNotFound
	}
	if _, ok := common.AsServiceError(err); ok {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return common.NewStorageError("存储操作超时", err)
	}
	return common.NewStorageError(message, err)
}
