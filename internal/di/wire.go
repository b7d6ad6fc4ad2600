//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/Mrkivi24/onlycats/internal/config"
	"github.com/Mrkivi24/onlycats/internal/modules"
	picturerepo "github.com/Mrkivi24/onlycats/internal/modules/picture/repo"
	"github.com/Mrkivi24/onlycats/internal/router"

	"github.com/google/wire"
	"gorm.io/gorm"
)

func InitializeApplication(ctx context.Context, cfg config.Config, gormDB *gorm.DB) (*Application, func(), error) {
	wire.Build(
		picturerepo.NewPictureRepository,
		provideAssetStore,
		provideRedis,
		provideAuthorizer,
		modules.New,
		router.NewRouter,
		NewApplication,
	)
	return nil, nil, nil
}
