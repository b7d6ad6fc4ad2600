package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/Mrkivi24/onlycats/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 单次 IN 查询的参数上限，避免超出数据库占位符数量限制
const referenceBatchSize = 500

// likeEscape 作为 LIKE 的转义字符，三种数据库都接受且不需要额外转义
const likeEscape = "!"

type PictureRepository struct {
	db *gorm.DB
}

func (r *PictureRepository) Insert(ctx context.Context, picture *model.Picture) error {
	if err := r.db.WithContext(ctx).Create(picture).Error; err != nil {
		return fmt.Errorf("insert picture: %w", err)
	}
	return nil
}

func (r *PictureRepository) GetByID(ctx context.Context, id uint) (*model.Picture, error) {
	var picture model.Picture
	if err := r.db.WithContext(ctx).First(&picture, id).Error; err != nil {
		return nil, err
	}
	return &picture, nil
}

func (r *PictureRepository) ListAll(ctx context.Context, limit int) ([]model.Picture, error) {
	pictures := make([]model.Picture, 0)
	query := r.db.WithContext(ctx).Order("like_count DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&pictures).Error; err != nil {
		return nil, fmt.Errorf("list pictures: %w", err)
	}
	return pictures, nil
}

func (r *PictureRepository) Search(ctx context.Context, query string) ([]model.Picture, error) {
	pictures := make([]model.Picture, 0)
	if query == "" {
		return pictures, nil
	}

	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	cond := "LOWER(title) LIKE ? ESCAPE '" + likeEscape + "'" +
		" OR LOWER(category) LIKE ? ESCAPE '" + likeEscape + "'" +
		" OR LOWER(tags) LIKE ? ESCAPE '" + likeEscape + "'"

	err := r.db.WithContext(ctx).
		Where(cond, pattern, pattern, pattern).
		Order("like_count DESC").Order("id DESC").
		Find(&pictures).Error
	if err != nil {
		return nil, fmt.Errorf("search pictures: %w", err)
	}
	return pictures, nil
}

func (r *PictureRepository) IncrementLike(ctx context.Context, id uint) (int64, error) {
	db := r.db.WithContext(ctx)
	result := db.Model(&model.Picture{}).Where("id = ?", id).
		UpdateColumn("like_count", gorm.Expr("like_count + ?", 1))
	if result.Error != nil {
		return 0, fmt.Errorf("increment like: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}

	var count int64
	if err := db.Model(&model.Picture{}).Where("id = ?", id).
		Select("like_count").Scan(&count).Error; err != nil {
		return 0, fmt.Errorf("read like count: %w", err)
	}
	return count, nil
}

func (r *PictureRepository) RecordLike(ctx context.Context, pictureID uint, clientIdentity string) (bool, error) {
	record := model.LikeRecord{PictureID: pictureID, ClientIdentity: clientIdentity}
	// 由唯一索引判重，不依赖事先查询
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&record)
	if result.Error != nil {
		return false, fmt.Errorf("record like: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *PictureRepository) SetGolden(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	result := db.Model(&model.Picture{}).Where("id = ?", id).UpdateColumn("golden", true)
	if result.Error != nil {
		return fmt.Errorf("set golden: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// MySQL 对未变化的行返回 0，需要再确认记录是否存在
	var count int64
	if err := db.Model(&model.Picture{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("check picture: %w", err)
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *PictureRepository) Delete(ctx context.Context, id uint) (string, error) {
	var assetRef string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var picture model.Picture
		if err := tx.Select("id", "asset_path").First(&picture, id).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&model.Picture{})
		if result.Error != nil {
			return fmt.Errorf("delete picture: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Where("picture_id = ?", id).Delete(&model.LikeRecord{}).Error; err != nil {
			return fmt.Errorf("delete likes: %w", err)
		}
		assetRef = picture.AssetPath
		return nil
	})
	if err != nil {
		return "", err
	}
	return assetRef, nil
}

func (r *PictureRepository) CountLikes(ctx context.Context, pictureID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.LikeRecord{}).
		Where("picture_id = ?", pictureID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}
	return count, nil
}

func (r *PictureRepository) ReferencedAssets(ctx context.Context, refs []string) (map[string]bool, error) {
	referenced := make(map[string]bool, len(refs))
	db := r.db.WithContext(ctx)
	for start := 0; start < len(refs); start += referenceBatchSize {
		end := min(start+referenceBatchSize, len(refs))

		var found []string
		if err := db.Model(&model.Picture{}).
			Where("asset_path IN ?", refs[start:end]).
			Pluck("asset_path", &found).Error; err != nil {
			return nil, fmt.Errorf("lookup asset references: %w", err)
		}
		for _, ref := range found {
			referenced[ref] = true
		}
	}
	return referenced, nil
}

func (r *PictureRepository) Transaction(ctx context.Context, fn func(tx PictureStore) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PictureRepository{db: tx})
	})
}

func escapeLike(s string) string {
	replacer := strings.NewReplacer(
		likeEscape, likeEscape+likeEscape,
		"%", likeEscape+"%",
		"_", likeEscape+"_",
	)
	return replacer.Replace(s)
}
