package service

import (
	"context"
	"strings"

	"github.com/Mrkivi24/onlycats/internal/model"
)

// ListAll 按点赞数降序返回图片，limit <= 0 表示全部。
func (s *Service) ListAll(ctx context.Context, limit int) ([]model.Picture, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	pictures, err := s.store.ListAll(ctx, limit)
	if err != nil {
		return nil, translateStoreError(err, "获取图片列表失败")
	}
	return pictures, nil
}

// Search 空查询直接返回空结果，不回退为全量列表。
func (s *Service) Search(ctx context.Context, query string) ([]model.Picture, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []model.Picture{}, nil
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	pictures, err := s.store.Search(ctx, query)
	if err != nil {
		return nil, translateStoreError(err, "搜索失败")
	}
	return pictures, nil
}

func (s *Service) GetByID(ctx context.Context, id uint) (*model.Picture, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	picture, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, translateStoreError(err, "获取图片失败")
	}
	return picture, nil
}
