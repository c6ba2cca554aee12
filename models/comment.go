package models

import "time"

// Comment - комментарий к посту, не длиннее 200 символов
type Comment struct {
	ID       int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Text     string    `gorm:"size:200;not null" json:"text"`
	Created  time.Time `gorm:"autoCreateTime" json:"created"`
	AuthorID int64     `gorm:"index;not null" json:"author_id"`
	PostID   int64     `gorm:"index;not null" json:"post_id"`

	Author User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	Post   Post `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Comment) TableName() string {
	return "comments"
}

// CommentView - комментарий с именем автора для страницы поста
type CommentView struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	Created    time.Time `json:"created"`
	AuthorID   int64     `json:"author_id"`
	AuthorName string    `json:"author"`
	PostID     int64     `json:"post_id"`
}
