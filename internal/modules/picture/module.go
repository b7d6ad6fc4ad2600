package picture

import (
	"time"

	"github.com/Mrkivi24/onlycats/internal/modules/asset"
	"github.com/Mrkivi24/onlycats/internal/modules/picture/handler"
	"github.com/Mrkivi24/onlycats/internal/modules/picture/repo"
	"github.com/Mrkivi24/onlycats/internal/modules/picture/service"
)

type Module struct {
	Service *service.Service
	Handler *handler.Handler
}

func New(pictureStore repo.PictureStore, assets asset.Store, opTimeout time.Duration) *Module {
	moduleService := service.New(pictureStore, assets, opTimeout)
	moduleHandler := handler.New(moduleService)

	return &Module{
		Service: moduleService,
		Handler: moduleHandler,
	}
}
