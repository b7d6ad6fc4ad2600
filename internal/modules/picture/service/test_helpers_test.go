package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/Mrkivi24/onlycats/internal/model"
	"github.com/Mrkivi24/onlycats/internal/modules/asset"
	"github.com/Mrkivi24/onlycats/internal/modules/picture/repo"
	"github.com/Mrkivi24/onlycats/internal/testutils"
)

type testEnv struct {
	svc    *Service
	store  repo.PictureStore
	assets *asset.LocalStore
}

func setupService(t *testing.T) *testEnv {
	t.Helper()
	gdb := testutils.SetupDB(t)
	store := repo.NewPictureRepository(gdb)
	assets, err := asset.NewLocalStore(filepath.Join(t.TempDir(), "images"), "/images/")
	if err != nil {
		t.Fatalf("创建资源存储失败: %v", err)
	}
	return &testEnv{
		svc:    New(store, assets, 10*time.Second),
		store:  store,
		assets: assets,
	}
}

func (e *testEnv) assetCount(t *testing.T) int {
	t.Helper()
	infos, err := e.assets.List(context.Background())
	if err != nil {
		t.Fatalf("列出资源失败: %v", err)
	}
	return len(infos)
}

func (e *testEnv) upload(t *testing.T, title, category, tags string) *model.Picture {
	t.Helper()
	p, err := e.svc.Upload(context.Background(), UploadInput{
		Data:     testutils.MinimalJPEG(),
		MimeType: "image/jpeg",
		Filename: "cat.jpg",
		Title:    title,
		Category: category,
		Tags:     tags,
	})
	if err != nil {
		t.Fatalf("上传失败: %v", err)
	}
	return p
}

// failingInsertStore 写入记录时总是失败，用于验证上传补偿。
type failingInsertStore struct {
	repo.PictureStore
}

func (failingInsertStore) Insert(context.Context, *model.Picture) error {
	return errors.New("disk I/O error")
}

// failingDeleteAssets 删除资源时总是失败，其余操作交给本地存储。
type failingDeleteAssets struct {
	*asset.LocalStore
}

func (failingDeleteAssets) Delete(context.Context, string) error {
	return errors.New("permission denied")
}

// deleteBeforeRecordStore 在事务内写入点赞台账前删除图片，
// 模拟点赞读取图片之后、递增计数之前有并发删除提交。
type deleteBeforeRecordStore struct {
	repo.PictureStore
}

func (s deleteBeforeRecordStore) Transaction(ctx context.Context, fn func(tx repo.PictureStore) error) error {
	return s.PictureStore.Transaction(ctx, func(tx repo.PictureStore) error {
		return fn(deleteBeforeRecordTx{tx})
	})
}

type deleteBeforeRecordTx struct {
	repo.PictureStore
}

func (tx deleteBeforeRecordTx) RecordLike(ctx context.Context, pictureID uint, clientIdentity string) (bool, error) {
	if _, err := tx.PictureStore.Delete(ctx, pictureID); err != nil {
		return false, err
	}
	return tx.PictureStore.RecordLike(ctx, pictureID, clientIdentity)
}
