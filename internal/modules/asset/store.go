package asset

import (
	"context"
	"fmt"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Store 图片资源的持久化存储。
//
// 引用 (ref) 为存储生成的唯一名称，由调用方写入图片记录；
// 所有失败都以 common.ErrorCodeStorage 类型的 ServiceError 返回。
type Store interface {
	// Store 以新生成的唯一名称保存内容，返回资源引用。
	Store(ctx context.Context, data []byte, ext string) (string, error)
	// Exists 判断资源是否存在。
	Exists(ctx context.Context, ref string) (bool, error)
	// Delete 删除资源，资源不存在时视为成功。
	Delete(ctx context.Context, ref string) error
	// List 列出全部资源，供孤儿资源清理使用。
	List(ctx context.Context) ([]Info, error)
	// PublicURL 返回资源对外访问路径。
	PublicURL(ref string) string
}

// Info 资源的基本信息。
type Info struct {
	Ref     string
	ModTime time.Time
}

const nameSuffixAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewName 生成资源名：纳秒时间戳 + 随机后缀 + 扩展名。
// 时间戳保证大致有序，随机后缀避免同一纳秒内的碰撞。
func NewName(now time.Time, ext string) (string, error) {
	suffix, err := gonanoid.Generate(nameSuffixAlphabet, 10)
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return fmt.Sprintf("%d-%s%s", now.UnixNano(), suffix, normalizeExt(ext)), nil
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	// 扩展名只保留字母数字，防止借扩展名注入路径
	var b strings.Builder
	b.WriteByte('.')
	for _, r := range ext[1:] {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 1 {
		return ""
	}
	return b.String()
}
