package service

import (
	"context"

	"github.com/Mrkivi24/onlycats/internal/metrics"
	"github.com/Mrkivi24/onlycats/internal/modules/picture/repo"

	"github.com/rs/zerolog/log"
)

// DeletePicture 删除图片记录、点赞台账及资源文件。
// 先删记录再删资源：中途失败最多遗留孤儿文件，不会出现指向缺失资源的记录。
func (s *Service) DeletePicture(ctx context.Context, id uint) error {
	dbCtx, cancel := s.withTimeout(ctx)
	ref, err := s.store.Delete(dbCtx, id)
	cancel()
	if err != nil {
		return translateStoreError(err, "删除图片失败")
	}
	metrics.AdminDeletes.Inc()

	assetCtx, cancel := s.detachedTimeout(ctx)
	defer cancel()
	if err := s.assets.Delete(assetCtx, ref); err != nil {
		log.Warn().Err(err).Uint("id", id).Str("ref", ref).Msg("图片记录已删除，资源文件删除失败")
		return nil
	}

	log.Info().Uint("id", id).Str("ref", ref).Msg("🗑️ 图片已删除")
	return nil
}

// ForceSparkle 强制将图片设为金色闪耀状态，已是金色时不做修改。
func (s *Service) ForceSparkle(ctx context.Context, id uint) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	wasGolden := false
	err := s.store.Transaction(ctx, func(tx repo.PictureStore) error {
		picture, err := tx.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if picture.Golden {
			wasGolden = true
			return nil
		}
		return tx.SetGolden(ctx, id)
	})
	if err != nil {
		return translateStoreError(err, "设置金色闪耀失败")
	}
	if wasGolden {
		return nil
	}
	metrics.GoldenTransitions.WithLabelValues("admin").Inc()
	log.Info().Uint("id", id).Msg("✨ 管理员设置金色闪耀")
	return nil
}
