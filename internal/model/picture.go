package model

import "time"

// Picture 图片目录中的一条记录。
// AssetPath 是资源存储返回的引用（文件名/对象键），每条记录独占一个资源。
type Picture struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Title      string    `json:"title" gorm:"size:200;not null"`
	Category   string    `json:"category" gorm:"size:100;not null;index"`
	Tags       string    `json:"tags" gorm:"size:500;not null;default:''"`
	AssetPath  string    `json:"-" gorm:"size:255;not null;uniqueIndex"`
	LikeCount  int64     `json:"likes" gorm:"not null;default:0;index"`
	TitleColor string    `json:"title_color" gorm:"size:32;not null"`
	Golden     bool      `json:"golden_sparkle" gorm:"not null;default:false"`
	CreatedAt  time.Time `json:"created_at" gorm:"not null;autoCreateTime"`
}
