package modules

import (
	"github.com/Mrkivi24/onlycats/internal/config"
	"github.com/Mrkivi24/onlycats/internal/modules/asset"
	"github.com/Mrkivi24/onlycats/internal/modules/picture"
	picturerepo "github.com/Mrkivi24/onlycats/internal/modules/picture/repo"
)

type AppModules struct {
	Picture *picture.Module
	Assets  asset.Store
	Sweeper *asset.Sweeper
}

func New(cfg config.Config, pictureStore picturerepo.PictureStore, assets asset.Store) *AppModules {
	return &AppModules{
		Picture: picture.New(pictureStore, assets, cfg.Database.OpTimeout),
		Assets:  assets,
		Sweeper: asset.NewSweeper(assets, pictureStore, cfg.Storage.SweepGrace),
	}
}
