package models

import "time"

// Follow - подписка пользователя на автора.
// Составной уникальный индекс не дает создать дубликат подписки
// даже при конкурентных запросах.
type Follow struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;index:follow_user_author_key,unique" json:"user_id"`
	AuthorID  int64     `gorm:"not null;index:follow_user_author_key,unique;index" json:"author_id"`
	CreatedAt time.Time `json:"created_at"`

	User   User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Author User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Follow) TableName() string {
	return "follows"
}

// FollowView - подписка с именем автора для API
type FollowView struct {
	ID         int64  `json:"id"`
	UserID     int64  `json:"user_id"`
	AuthorID   int64  `json:"author_id"`
	AuthorName string `json:"following"`
}
