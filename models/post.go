package models

import "time"

// Group - сообщество, к которому можно привязать пост
type Group struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string `gorm:"size:200;not null" json:"title"`
	Slug        string `gorm:"size:40;uniqueIndex" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
}

func (Group) TableName() string {
	return "groups"
}

// Post - запись пользователя, опционально привязанная к группе
// При удалении автора посты удаляются каскадно, при удалении группы
// ссылка на группу обнуляется.
type Post struct {
	ID       int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Text     string    `gorm:"type:text;not null" json:"text"`
	PubDate  time.Time `gorm:"autoCreateTime;index" json:"pub_date"`
	AuthorID int64     `gorm:"index;not null" json:"author_id"`
	GroupID  *int64    `gorm:"index" json:"group_id,omitempty"`
	Image    string    `gorm:"size:255" json:"image,omitempty"`

	Author User   `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	Group  *Group `gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL" json:"-"`
}

func (Post) TableName() string {
	return "posts"
}

// PostView - пост вместе с данными автора и группы для страниц и ленты
type PostView struct {
	ID          int64     `json:"id"`
	Text        string    `json:"text"`
	PubDate     time.Time `json:"pub_date"`
	AuthorID    int64     `json:"author_id"`
	AuthorName  string    `json:"author"`
	GroupSlug   string    `json:"group,omitempty"`
	GroupTitle  string    `json:"group_title,omitempty"`
	Image       string    `json:"image,omitempty"`
}

// PostPage - одна страница постов с данными пагинатора
type PostPage struct {
	Posts      []PostView `json:"posts"`
	Page       int        `json:"page"`
	NumPages   int        `json:"num_pages"`
	TotalCount int64      `json:"total_count"`
}

func (p *PostPage) HasNext() bool {
	return p.Page < p.NumPages
}

func (p *PostPage) HasPrev() bool {
	return p.Page > 1
}

func (p *PostPage) NextPage() int {
	return p.Page + 1
}

func (p *PostPage) PrevPage() int {
	return p.Page - 1
}
