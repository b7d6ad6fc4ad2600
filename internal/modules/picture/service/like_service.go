package service

import (
	"context"
	"errors"

	"github.com/Mrkivi24/onlycats/internal/consts"
	"github.com/Mrkivi24/onlycats/internal/metrics"
	"github.com/Mrkivi24/onlycats/internal/modules/picture/repo"
	"github.com/Mrkivi24/onlycats/internal/utils"

	"github.com/rs/zerolog/log"
)

// maxClientIdentityLen 与 likes.client_identity 列宽一致
const maxClientIdentityLen = 64

// LikeResult 点赞结果。Accepted 为 false 表示该客户端已点过赞，此时计数未变。
type LikeResult struct {
	Accepted bool
	NewCount int64
	Golden   bool
}

// Like 为图片记录一次点赞，每个客户端对同一图片最多一次。
//
// 台账写入与计数递增在同一事务内完成；去重依赖 (picture_id, client_identity)
// 唯一索引，计数使用 like_count = like_count + 1 原子更新。
func (s *Service) Like(ctx context.Context, pictureID uint, clientIdentity string) (*LikeResult, error) {
	client := utils.NormalizeClientIdentity(clientIdentity)
	if client == "" || len(client) > maxClientIdentityLen {
		return nil, ErrClientIdentityRequired
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var result LikeResult
	becameGolden := false
	err := s.store.Transaction(ctx, func(tx repo.PictureStore) error {
		picture, err := tx.GetByID(ctx, pictureID)
		if err != nil {
			return err
		}

		inserted, err := tx.RecordLike(ctx, pictureID, client)
		if err != nil {
			return err
		}
		if !inserted {
			result = LikeResult{Accepted: false, NewCount: picture.LikeCount, Golden: picture.Golden}
			return nil
		}

		// 图片在事务中途被删除时返回 NotFound，点赞台账随事务回滚
		count, err := tx.IncrementLike(ctx, pictureID)
		if err != nil {
			return err
		}

		golden := picture.Golden
		if count >= consts.GoldenThreshold {
			if err := tx.SetGolden(ctx, pictureID); err != nil {
				return err
			}
			becameGolden = !golden
			golden = true
		}
		result = LikeResult{Accepted: true, NewCount: count, Golden: golden}
		return nil
	})
	if err != nil {
		err = translateStoreError(err, "点赞失败")
		if errors.Is(err, ErrPictureNotFound) {
			metrics.LikesTotal.WithLabelValues("not_found").Inc()
		} else {
			metrics.LikesTotal.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	if !result.Accepted {
		metrics.LikesTotal.WithLabelValues("duplicate").Inc()
		return &result, nil
	}
	metrics.LikesTotal.WithLabelValues("accepted").Inc()
	if becameGolden {
		metrics.GoldenTransitions.WithLabelValues("threshold").Inc()
		log.Info().Uint("id", pictureID).Int64("likes", result.NewCount).Msg("✨ 图片进入金色闪耀状态")
	}
	return &result, nil
}
