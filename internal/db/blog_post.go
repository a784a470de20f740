package db

import "time"

const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
)

// BlogPost 定义了博客文章模型
type BlogPost struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Slug          string     `gorm:"size:191;uniqueIndex;not null" json:"slug"`
	Title         string     `gorm:"size:255;not null" json:"title"`
	Excerpt       string     `gorm:"type:text" json:"excerpt"`
	Content       string     `gorm:"type:text" json:"content"`
	CoverImageURL string     `gorm:"size:1024" json:"coverImageUrl"`
	Author        string     `gorm:"size:120" json:"author"`
	Status        string     `gorm:"size:16;index;not null" json:"status"`
	PublishedAt   *time.Time `gorm:"index" json:"publishedAt"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}
