package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Mrkivi24/onlycats/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// 测试内容：验证删除移除记录、点赞台账与资源文件，重复删除返回 NotFound。
func TestDeletePicture_RemovesRowLikesAndAsset(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()
	p := env.upload(t, "Mittens", "cats", "")
	for _, client := range []string{"10.0.0.1", "10.0.0.2"} {
		if _, err := env.svc.Like(ctx, p.ID, client); err != nil {
			t.Fatalf("点赞失败: %v", err)
		}
	}

	if err := env.svc.DeletePicture(ctx, p.ID); err != nil {
		t.Fatalf("删除失败: %v", err)
	}

	if _, err := env.svc.GetByID(ctx, p.ID); !errors.Is(err, ErrPictureNotFound) {
		t.Fatalf("期望 ErrPictureNotFound，实际为 %v", err)
	}
	if n, _ := env.store.CountLikes(ctx, p.ID); n != 0 {
		t.Fatalf("期望 点赞台账被删除，剩余 %d", n)
	}
	if ok, _ := env.assets.Exists(ctx, p.AssetPath); ok {
		t.Fatalf("期望 资源文件被删除")
	}

	if err := env.svc.DeletePicture(ctx, p.ID); !errors.Is(err, ErrPictureNotFound) {
		t.Fatalf("期望 重复删除返回 ErrPictureNotFound，实际为 %v", err)
	}
}

// 测试内容：验证删除后对该图片点赞返回 NotFound 且不会写入台账。
func TestDeletePicture_ThenLikeFailsCleanly(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()
	p := env.upload(t, "Mittens", "cats", "")

	if err := env.svc.DeletePicture(ctx, p.ID); err != nil {
		t.Fatalf("删除失败: %v", err)
	}
	if _, err := env.svc.Like(ctx, p.ID, "10.0.0.1"); !errors.Is(err, ErrPictureNotFound) {
		t.Fatalf("期望 ErrPictureNotFound，实际为 %v", err)
	}
	if n, _ := env.store.CountLikes(ctx, p.ID); n != 0 {
		t.Fatalf("期望 没有孤立的点赞台账，实际为 %d", n)
	}
}

// 测试内容：验证资源删除失败不影响删除结果，记录仍被移除。
func TestDeletePicture_AssetFailureIsNotSurfaced(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()
	p := env.upload(t, "Mittens", "cats", "")

	svc := New(env.store, failingDeleteAssets{env.assets}, time.Second)
	if err := svc.DeletePicture(ctx, p.ID); err != nil {
		t.Fatalf("期望 资源删除失败时仍返回成功，实际为 %v", err)
	}
	if _, err := svc.GetByID(ctx, p.ID); !errors.Is(err, ErrPictureNotFound) {
		t.Fatalf("期望 记录已删除，实际为 %v", err)
	}
	if ok, _ := env.assets.Exists(ctx, p.AssetPath); !ok {
		t.Fatalf("期望 资源文件遗留等待清理")
	}
}

// 测试内容：验证强制金色生效且幂等，不存在的图片返回 NotFound。
func TestForceSparkle(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()
	p := env.upload(t, "Mittens", "cats", "")

	adminTransitions := metrics.GoldenTransitions.WithLabelValues("admin")
	before := testutil.ToFloat64(adminTransitions)
	for i := 0; i < 2; i++ {
		if err := env.svc.ForceSparkle(ctx, p.ID); err != nil {
			t.Fatalf("设置金色失败: %v", err)
		}
	}
	// 第二次调用时已是金色，不计为一次状态转换
	if got := testutil.ToFloat64(adminTransitions) - before; got != 1 {
		t.Fatalf("期望 金色转换计数增加 1，实际为 %v", got)
	}
	got, _ := env.svc.GetByID(ctx, p.ID)
	if !got.Golden || got.LikeCount != 0 {
		t.Fatalf("期望 金色且点赞数不变，实际为 %+v", got)
	}

	// 金色状态不会被之后的点赞重置
	res, err := env.svc.Like(ctx, p.ID, "10.0.0.1")
	if err != nil || !res.Golden {
		t.Fatalf("期望 点赞后仍为金色，实际为 %+v, %v", res, err)
	}

	if err := env.svc.ForceSparkle(ctx, p.ID+100); !errors.Is(err, ErrPictureNotFound) {
		t.Fatalf("期望 ErrPictureNotFound，实际为 %v", err)
	}
}
