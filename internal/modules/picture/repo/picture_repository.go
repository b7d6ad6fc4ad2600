package repo

import (
	"context"

	"github.com/Mrkivi24/onlycats/internal/model"

	"gorm.io/gorm"
)

// PictureStore 图片目录与点赞台账的持久化操作。
//
// 记录不存在时返回 gorm.ErrRecordNotFound，由业务层转换为 NotFound 错误。
type PictureStore interface {
	Insert(ctx context.Context, picture *model.Picture) error
	GetByID(ctx context.Context, id uint) (*model.Picture, error)
	// ListAll 按点赞数降序返回图片，limit <= 0 表示不限制。
	ListAll(ctx context.Context, limit int) ([]model.Picture, error)
	// Search 在标题、分类、标签中做大小写不敏感的子串匹配；空查询返回空结果。
	Search(ctx context.Context, query string) ([]model.Picture, error)
	// IncrementLike 原子地将点赞数加一并返回新值。
	IncrementLike(ctx context.Context, id uint) (int64, error)
	// RecordLike 写入点赞台账，(picture, client) 已存在时返回 false 且不做修改。
	RecordLike(ctx context.Context, pictureID uint, clientIdentity string) (bool, error)
	SetGolden(ctx context.Context, id uint) error
	// Delete 删除图片及其点赞台账，返回资源引用。
	Delete(ctx context.Context, id uint) (string, error)
	CountLikes(ctx context.Context, pictureID uint) (int64, error)
	// ReferencedAssets 返回 refs 中仍被图片记录引用的资源。
	ReferencedAssets(ctx context.Context, refs []string) (map[string]bool, error)
	// Transaction 在同一数据库事务中执行 fn，fn 返回错误时回滚。
	Transaction(ctx context.Context, fn func(tx PictureStore) error) error
}

func NewPictureRepository(db *gorm.DB) PictureStore {
	return &PictureRepository{db: db}
}
