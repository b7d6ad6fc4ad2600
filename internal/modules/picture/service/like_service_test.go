package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Mrkivi24/onlycats/internal/common"
)

// 测试内容：验证首次点赞计数加一，同一客户端重复点赞返回未接受且计数不变。
func TestLike_DuplicateIsNotAnError(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()
	p := env.upload(t, "Mittens", "cats", "")

	res, err := env.svc.Like(ctx, p.ID, "10.0.0.1")
	if err != nil {
		t.Fatalf("点赞失败: %v", err)
	}
	if !res.Accepted || res.NewCount != 1 || res.Golden {
		t.Fatalf("非预期点赞结果: %+v", res)
	}

	res, err = env.svc.Like(ctx, p.ID, "10.0.0.1")
	if err != nil {
		t.Fatalf("期望 重复点赞不返回错误，实际为 %v", err)
	}
	if res.Accepted {
		t.Fatalf("期望 重复点赞未被接受")
	}

	got, _ := env.svc.GetByID(ctx, p.ID)
	if got.LikeCount != 1 {
		t.Fatalf("期望 点赞数保持 1，实际为 %d", got.LikeCount)
	}
}

// 测试内容：验证 IPv4 映射地址与带端口写法被视为同一客户端。
func TestLike_NormalizesClientIdentity(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()
	p := env.upload(t, "Mittens", "cats", "")

	if res, err := env.svc.Like(ctx, p.ID, "::ffff:192.168.1.7"); err != nil || !res.Accepted {
		t.Fatalf("期望 首次点赞成功，实际为 %+v, %v", res, err)
	}
	res, err := env.svc.Like(ctx, p.ID, "192.168.1.7:51234")
	if err != nil {
		t.Fatalf("点赞失败: %v", err)
	}
	if res.Accepted {
		t.Fatalf("期望 规整后判定为重复点赞")
	}
}

// 测试内容：验证不存在的图片与空客户端标识的错误类型。
func TestLike_Errors(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()

	if _, err := env.svc.Like(ctx, 999, "10.0.0.1"); !errors.Is(err, ErrPictureNotFound) {
		t.Fatalf("期望 ErrPictureNotFound，实际为 %v", err)
	}
	if !common.IsCode(ErrPictureNotFound, common.ErrorCodeNotFound) {
		t.Fatalf("期望 not_found 错误码")
	}

	p := env.upload(t, "Mittens", "cats", "")
	if _, err := env.svc.Like(ctx, p.ID, "  "); !errors.Is(err, ErrClientIdentityRequired) {
		t.Fatalf("期望 ErrClientIdentityRequired，实际为 %v", err)
	}
	if n, _ := env.store.CountLikes(ctx, 999); n != 0 {
		t.Fatalf("期望 不存在的图片没有点赞台账，实际为 %d", n)
	}
}

// 测试内容：验证 N 个不同客户端并发点赞后计数与台账均为 N。
func TestLike_ConcurrentDistinctClients(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()
	p := env.upload(t, "Mittens", "cats", "")

	const n = 50
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := env.svc.Like(ctx, p.ID, fmt.Sprintf("10.0.%d.%d", i/250, i%250))
			if err != nil {
				errs <- err
				return
			}
			if !res.Accepted {
				errs <- fmt.Errorf("client %d not accepted", i)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("并发点赞失败: %v", err)
	}

	got, _ := env.svc.GetByID(ctx, p.ID)
	if got.LikeCount != n {
		t.Fatalf("期望 点赞数 %d，实际为 %d", n, got.LikeCount)
	}
	if records, _ := env.store.CountLikes(ctx, p.ID); records != n {
		t.Fatalf("期望 台账 %d 条，实际为 %d", n, records)
	}
}

// 测试内容：验证同一客户端并发点赞只有一次被接受。
func TestLike_ConcurrentSameClient(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()
	p := env.upload(t, "Mittens", "cats", "")

	const n = 20
	var accepted atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := env.svc.Like(ctx, p.ID, "10.0.0.1")
			if err != nil {
				t.Errorf("点赞失败: %v", err)
				return
			}
			if res.Accepted {
				accepted.Add(1)
			}
		}()
	}
	wg.Wait()

	if accepted.Load() != 1 {
		t.Fatalf("期望 仅接受 1 次，实际为 %d", accepted.Load())
	}
	got, _ := env.svc.GetByID(ctx, p.ID)
	if got.LikeCount != 1 {
		t.Fatalf("期望 点赞数 1，实际为 %d", got.LikeCount)
	}
}

// 测试内容：验证 99 个赞时不是金色，第 100 个赞触发金色，之后不会回退。
func TestLike_GoldenThreshold(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()
	p := env.upload(t, "Mittens", "cats", "")

	for i := 1; i <= 99; i++ {
		res, err := env.svc.Like(ctx, p.ID, fmt.Sprintf("client-%d", i))
		if err != nil {
			t.Fatalf("第 %d 次点赞失败: %v", i, err)
		}
		if res.Golden {
			t.Fatalf("期望 %d 个赞时不是金色", i)
		}
	}
	got, _ := env.svc.GetByID(ctx, p.ID)
	if got.LikeCount != 99 || got.Golden {
		t.Fatalf("期望 99 个赞且非金色，实际为 %+v", got)
	}

	res, err := env.svc.Like(ctx, p.ID, "client-100")
	if err != nil {
		t.Fatalf("点赞失败: %v", err)
	}
	if !res.Accepted || res.NewCount != 100 || !res.Golden {
		t.Fatalf("期望 第 100 个赞触发金色，实际为 %+v", res)
	}

	// 重复点赞与后续点赞都不会改变金色状态
	if res, _ := env.svc.Like(ctx, p.ID, "client-100"); res.Accepted || !res.Golden {
		t.Fatalf("期望 重复点赞仍报告金色，实际为 %+v", res)
	}
	res, err = env.svc.Like(ctx, p.ID, "client-101")
	if err != nil || !res.Golden || res.NewCount != 101 {
		t.Fatalf("期望 金色保持，实际为 %+v, %v", res, err)
	}
}

// 测试内容：Mittens 示例，上传后 100 个不同客户端点赞得到金色。
func TestMittensExample(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()
	p := env.upload(t, "Mittens", "cats", "cute,fluffy")

	all, err := env.svc.ListAll(ctx, 0)
	if err != nil {
		t.Fatalf("列出图片失败: %v", err)
	}
	if len(all) != 1 || all[0].ID != p.ID || all[0].LikeCount != 0 || all[0].Golden {
		t.Fatalf("非预期列表: %+v", all)
	}

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := env.svc.Like(ctx, p.ID, fmt.Sprintf("2001:db8::%x", i+1)); err != nil {
				t.Errorf("点赞失败: %v", err)
			}
		}(i)
	}
	wg.Wait()

	got, _ := env.svc.GetByID(ctx, p.ID)
	if got.LikeCount != 100 || !got.Golden {
		t.Fatalf("期望 100 个赞且为金色，实际为 likes=%d golden=%v", got.LikeCount, got.Golden)
	}
}

// 测试内容：验证点赞事务中途图片被删除时返回 NotFound，已写入的台账随事务回滚。
func TestLike_PictureDeletedMidTransaction(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()
	p := env.upload(t, "Mittens", "cats", "")

	svc := New(deleteBeforeRecordStore{env.store}, env.assets, 10*time.Second)
	res, err := svc.Like(ctx, p.ID, "10.0.0.1")
	if !errors.Is(err, ErrPictureNotFound) {
		t.Fatalf("期望 ErrPictureNotFound，实际为 res=%+v err=%v", res, err)
	}
	if n, err := env.store.CountLikes(ctx, p.ID); err != nil || n != 0 {
		t.Fatalf("期望 没有孤立的点赞台账，实际为 %d (err=%v)", n, err)
	}

	// 删除与台账同属一个事务，回滚后图片仍在且计数未变
	got, err := env.svc.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("获取图片失败: %v", err)
	}
	if got.LikeCount != 0 {
		t.Fatalf("期望 点赞数为 0，实际为 %d", got.LikeCount)
	}
}
