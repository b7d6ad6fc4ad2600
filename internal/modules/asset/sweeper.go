package asset

import (
	"context"
	"time"

	"github.com/Mrkivi24/onlycats/internal/metrics"

	"github.com/rs/zerolog/log"
)

// ReferenceChecker 查询哪些资源引用仍被图片记录持有。
type ReferenceChecker interface {
	ReferencedAssets(ctx context.Context, refs []string) (map[string]bool, error)
}

// Sweeper 清理没有任何图片记录引用的资源。
//
// 上传流程在进程崩溃于“保存资源”与“写入记录”之间时会遗留孤儿文件，
// 只清理超过宽限期的资源，避免误删正在上传中的文件。
type Sweeper struct {
	store Store
	refs  ReferenceChecker
	grace time.Duration
	now   func() time.Time
}

func NewSweeper(store Store, refs ReferenceChecker, grace time.Duration) *Sweeper {
	if grace <= 0 {
		grace = time.Hour
	}
	return &Sweeper{store: store, refs: refs, grace: grace, now: time.Now}
}

// RunOnce 执行一轮清理，返回删除的资源数量。
func (s *Sweeper) RunOnce(ctx context.Context) (int, error) {
	infos, err := s.store.List(ctx)
	if err != nil {
		return 0, err
	}

	cutoff := s.now().Add(-s.grace)
	candidates := make([]string, 0, len(infos))
	for _, info := range infos {
		if info.ModTime.Before(cutoff) {
			candidates = append(candidates, info.Ref)
		}
	}
	if len(candidates) == 0 {
		return 0, nil
	}

	referenced, err := s.refs.ReferencedAssets(ctx, candidates)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, ref := range candidates {
		if referenced[ref] {
			continue
		}
		if err := s.store.Delete(ctx, ref); err != nil {
			log.Warn().Err(err).Str("ref", ref).Msg("清理孤儿资源失败")
			continue
		}
		removed++
		metrics.OrphanAssetsRemoved.Inc()
	}
	if removed > 0 {
		log.Info().Int("removed", removed).Msg("🧹 已清理孤儿资源")
	}
	return removed, nil
}

// Start 按 interval 周期执行清理，直到 ctx 结束；interval <= 0 时不启动。
func (s *Sweeper) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := s.RunOnce(ctx); err != nil {
					log.Warn().Err(err).Msg("孤儿资源清理失败")
				}
			}
		}
	}()
}
