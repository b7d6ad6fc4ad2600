package model

import "time"

// LikeRecord 点赞台账，(picture_id, client_identity) 唯一，用于去重。
// 不声明外键约束，级联删除由仓储层在同一事务内完成。
type LikeRecord struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	PictureID      uint      `json:"picture_id" gorm:"not null;uniqueIndex:uk_picture_client,priority:1"`
	ClientIdentity string    `json:"client_identity" gorm:"size:64;not null;uniqueIndex:uk_picture_client,priority:2"`
	CreatedAt      time.Time `json:"created_at" gorm:"not null;autoCreateTime"`
}

func (LikeRecord) TableName() string { return "likes" }
