package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Mrkivi24/onlycats/internal/common"
	"github.com/Mrkivi24/onlycats/internal/consts"
	"github.com/Mrkivi24/onlycats/internal/testutils"
)

// 测试内容：验证上传成功后资源存在且记录引用该资源，默认值生效。
func TestUpload_Success(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()

	p, err := env.svc.Upload(ctx, UploadInput{
		Data:     testutils.MinimalJPEG(),
		MimeType: "image/jpeg",
		Filename: "Mittens.JPEG",
		Title:    "  Mittens ",
		Category: " cats ",
		Tags:     " cute, fluffy,,Cute ",
	})
	if err != nil {
		t.Fatalf("上传失败: %v", err)
	}
	if p.ID == 0 {
		t.Fatalf("期望 分配 ID")
	}

	ok, err := env.assets.Exists(ctx, p.AssetPath)
	if err != nil || !ok {
		t.Fatalf("期望 资源存在，实际为 %v, %v", ok, err)
	}
	if !strings.HasSuffix(p.AssetPath, ".jpeg") {
		t.Fatalf("期望 沿用原扩展名 .jpeg，实际为 %q", p.AssetPath)
	}

	got, err := env.svc.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("读取图片失败: %v", err)
	}
	if got.AssetPath != p.AssetPath {
		t.Fatalf("期望 记录引用 %q，实际为 %q", p.AssetPath, got.AssetPath)
	}
	if got.Title != "Mittens" || got.Category != "cats" {
		t.Fatalf("期望 标题与分类去除首尾空白，实际为 %q / %q", got.Title, got.Category)
	}
	if got.Tags != "cute,fluffy" {
		t.Fatalf("期望 标签规整为 cute,fluffy，实际为 %q", got.Tags)
	}
	if got.TitleColor != consts.DefaultTitleColor {
		t.Fatalf("期望 默认标题颜色 %s，实际为 %q", consts.DefaultTitleColor, got.TitleColor)
	}
	if got.LikeCount != 0 || got.Golden {
		t.Fatalf("期望 新图片点赞为 0 且非金色，实际为 %+v", got)
	}
	if env.svc.ImagePath(got) != "/images/"+p.AssetPath {
		t.Fatalf("非预期图片路径: %q", env.svc.ImagePath(got))
	}
}

// 测试内容：验证校验按顺序返回各自的错误，且失败时不保存任何资源。
func TestUpload_ValidationOrder(t *testing.T) {
	env := setupService(t)
	ctx := context.Background()

	png := testutils.MinimalPNG()
	oversized := append(append([]byte{}, png...), bytes.Repeat([]byte{0}, consts.MaxUploadSize)...)

	cases := []struct {
		name  string
		input UploadInput
		want  error
	}{
		{"empty", UploadInput{MimeType: "image/png", Title: "t", Category: "c"}, ErrEmptyFile},
		{"empty beats bad type", UploadInput{MimeType: "text/plain"}, ErrEmptyFile},
		{"type", UploadInput{Data: png, MimeType: "application/pdf", Title: "t", Category: "c"}, ErrUnsupportedType},
		{"type before title", UploadInput{Data: png, MimeType: "image/bmp"}, ErrUnsupportedType},
		{"mismatch", UploadInput{Data: png, MimeType: "image/jpeg", Title: "t", Category: "c"}, ErrContentMismatch},
		{"too large", UploadInput{Data: oversized, MimeType: "image/png", Title: "t", Category: "c"}, ErrFileTooLarge},
		{"title", UploadInput{Data: png, MimeType: "image/png", Title: "   ", Category: "c"}, ErrTitleRequired},
		{"title before category", UploadInput{Data: png, MimeType: "image/png"}, ErrTitleRequired},
		{"category", UploadInput{Data: png, MimeType: "image/png", Title: "t", Category: "\t"}, ErrCategoryRequired},
		{"colour", UploadInput{Data: png, MimeType: "image/png", Title: "t", Category: "c", TitleColor: "pinkish"}, ErrInvalidField},
		{"title length", UploadInput{Data: png, MimeType: "image/png", Title: strings.Repeat("喵", 201), Category: "c"}, ErrInvalidField},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.svc.Upload(ctx, tc.input)
			if !errors.Is(err, tc.want) {
				t.Fatalf("期望 %v，实际为 %v", tc.want, err)
			}
			if !common.IsCode(err, common.ErrorCodeValidation) {
				t.Fatalf("期望 validation 错误码，实际为 %v", err)
			}
		})
	}

	if n := env.assetCount(t); n != 0 {
		t.Fatalf("期望 校验失败不保存资源，实际保存了 %d 个", n)
	}
}

// 测试内容：验证记录写入失败时删除已保存的资源并返回 storage 错误。
func TestUpload_CompensatesWhenInsertFails(t *testing.T) {
	env := setupService(t)
	svc := New(failingInsertStore{env.store}, env.assets, time.Second)

	_, err := svc.Upload(context.Background(), UploadInput{
		Data:     testutils.MinimalPNG(),
		MimeType: "image/png",
		Filename: "a.png",
		Title:    "Mittens",
		Category: "cats",
	})
	if !common.IsCode(err, common.ErrorCodeStorage) {
		t.Fatalf("期望 storage 错误，实际为 %v", err)
	}
	if n := env.assetCount(t); n != 0 {
		t.Fatalf("期望 补偿删除资源，实际剩余 %d 个", n)
	}
	all, _ := env.svc.ListAll(context.Background(), 0)
	if len(all) != 0 {
		t.Fatalf("期望 没有图片记录，实际为 %d 条", len(all))
	}
}

// 测试内容：验证已取消的请求在保存资源阶段失败且不留下任何状态。
func TestUpload_CancelledContext(t *testing.T) {
	env := setupService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := env.svc.Upload(ctx, UploadInput{
		Data: testutils.MinimalGIF(), MimeType: "image/gif", Title: "t", Category: "c",
	})
	if !common.IsCode(err, common.ErrorCodeStorage) {
		t.Fatalf("期望 storage 错误，实际为 %v", err)
	}
	if n := env.assetCount(t); n != 0 {
		t.Fatalf("期望 没有资源，实际为 %d", n)
	}
}

func TestNormalizeTags(t *testing.T) {
	cases := map[string]string{
		"":                    "",
		"  ":                  "",
		"cute,fluffy":         "cute,fluffy",
		" cute , , fluffy ,":  "cute,fluffy",
		"Cat,cat,CAT,dog":     "Cat,dog",
		"orange cat, sleepy ": "orange cat,sleepy",
	}
	for in, want := range cases {
		if got := NormalizeTags(in); got != want {
			t.Fatalf("NormalizeTags(%q) 期望 %q，实际为 %q", in, want, got)
		}
	}
}

func TestChooseExtension(t *testing.T) {
	cases := []struct {
		filename, mime, want string
	}{
		{"a.JPG", "image/jpeg", ".jpg"},
		{"a.jpeg", "image/jpeg", ".jpeg"},
		{"a.png", "image/jpeg", ".jpg"},
		{"noext", "image/webp", ".webp"},
		{"../../evil.gif", "image/gif", ".gif"},
	}
	for _, tc := range cases {
		if got := chooseExtension(tc.filename, tc.mime); got != tc.want {
			t.Fatalf("chooseExtension(%q, %q) 期望 %q，实际为 %q", tc.filename, tc.mime, tc.want, got)
		}
	}
}
