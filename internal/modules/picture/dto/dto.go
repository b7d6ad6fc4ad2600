package dto

import (
	"time"

	"github.com/Mrkivi24/onlycats/internal/model"
)

// PictureResponse 图片的对外表示。
// has_golden_sparkle 与 golden_sparkle 含义相同，保留给旧版前端。
type PictureResponse struct {
	ID               uint      `json:"id"`
	Title            string    `json:"title"`
	Category         string    `json:"category"`
	Tags             string    `json:"tags"`
	ImagePath        string    `json:"image_path"`
	Likes            int64     `json:"likes"`
	TitleColor       string    `json:"title_color"`
	GoldenSparkle    bool      `json:"golden_sparkle"`
	HasGoldenSparkle bool      `json:"has_golden_sparkle"`
	CreatedAt        time.Time `json:"created_at"`
}

func NewPictureResponse(p *model.Picture, imagePath string) PictureResponse {
	return PictureResponse{
		ID:               p.ID,
		Title:            p.Title,
		Category:         p.Category,
		Tags:             p.Tags,
		ImagePath:        imagePath,
		Likes:            p.LikeCount,
		TitleColor:       p.TitleColor,
		GoldenSparkle:    p.Golden,
		HasGoldenSparkle: p.Golden,
		CreatedAt:        p.CreatedAt,
	}
}

// UploadResponse assetPath 为资源引用，image_path 为可直接访问的地址。
type UploadResponse struct {
	Success   bool   `json:"success"`
	ID        uint   `json:"id"`
	AssetPath string `json:"assetPath"`
	ImagePath string `json:"image_path"`
}

type LikeResponse struct {
	Success       bool  `json:"success"`
	NewLikeCount  int64 `json:"newLikeCount"`
	GoldenSparkle bool  `json:"goldenSparkle"`
}

// MessageResponse 非错误的业务提示，例如重复点赞。
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
