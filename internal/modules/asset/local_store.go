package asset

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Mrkivi24/onlycats/internal/common"
	"github.com/Mrkivi24/onlycats/internal/utils"

	"github.com/rs/zerolog/log"
)

// LocalStore 将资源保存在本地目录中，文件名即资源引用。
type LocalStore struct {
	root      string
	urlPrefix string

	mu       sync.Mutex
	prepared bool
}

// NewLocalStore 创建本地存储；目录在首次写入时按 0750 权限创建。
func NewLocalStore(root, urlPrefix string) (*LocalStore, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("资源目录不能为空")
	}
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("资源目录解析失败: %w", err)
	}
	if urlPrefix == "" {
		urlPrefix = "/images/"
	}
	if !strings.HasSuffix(urlPrefix, "/") {
		urlPrefix += "/"
	}
	return &LocalStore{root: rootAbs, urlPrefix: urlPrefix}, nil
}

// Root 返回资源目录的绝对路径。
func (s *LocalStore) Root() string {
	return s.root
}

func (s *LocalStore) ensureRoot() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.prepared {
		return nil
	}

	// 先检查根目录节点本身不是符号链接（防止根目录直接指向外部路径）
	if err := utils.EnsurePathNotSymlink(s.root); err != nil {
		return err
	}
	if err := os.MkdirAll(s.root, 0750); err != nil {
		return err
	}
	s.prepared = true
	return nil
}

func (s *LocalStore) Store(ctx context.Context, data []byte, ext string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", common.NewStorageError("保存图片失败", err)
	}
	if err := s.ensureRoot(); err != nil {
		return "", common.NewStorageError("系统错误: 无法创建存储目录", err)
	}

	name, err := NewName(time.Now(), ext)
	if err != nil {
		return "", common.NewStorageError("系统错误: 无法生成文件名", err)
	}
	dst, err := utils.SecureJoin(s.root, name)
	if err != nil {
		return "", common.NewStorageError("系统错误: 非法文件路径", err)
	}

	// O_EXCL 保证不会覆盖已有资源
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0640)
	if err != nil {
		return "", common.NewStorageError("系统错误: 无法创建文件", err)
	}
	if _, err := out.Write(data); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return "", common.NewStorageError("文件保存失败", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return "", common.NewStorageError("文件保存失败", err)
	}
	return name, nil
}

func (s *LocalStore) Exists(_ context.Context, ref string) (bool, error) {
	path, err := s.resolve(ref)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, common.NewStorageError("检查图片文件失败", err)
	}
	return info.Mode().IsRegular(), nil
}

func (s *LocalStore) Delete(_ context.Context, ref string) error {
	path, err := s.resolve(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return common.NewStorageError("删除图片文件失败", err)
	}
	return nil
}

func (s *LocalStore) List(_ context.Context) ([]Info, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, common.NewStorageError("读取资源目录失败", err)
	}

	infos := make([]Info, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			log.Warn().Err(err).Str("name", entry.Name()).Msg("读取资源信息失败")
			continue
		}
		infos = append(infos, Info{Ref: entry.Name(), ModTime: fi.ModTime()})
	}
	return infos, nil
}

func (s *LocalStore) PublicURL(ref string) string {
	return s.urlPrefix + ref
}

func (s *LocalStore) resolve(ref string) (string, error) {
	if !utils.IsPlainFileName(ref) {
		return "", common.NewStorageError("非法资源引用", fmt.Errorf("ref %q", ref))
	}
	path, err := utils.SecureJoin(s.root, ref)
	if err != nil {
		return "", common.NewStorageError("非法资源引用", err)
	}
	return path, nil
}
