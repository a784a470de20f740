package db

import "time"

// PageSeo holds per-page overrides. Nil fields mean "not overridden".
type PageSeo struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	PageID          uint      `gorm:"uniqueIndex;not null" json:"pageId"`
	Page            Page      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	MetaTitle       *string   `gorm:"size:255" json:"metaTitle"`
	MetaDescription *string   `gorm:"type:text" json:"metaDescription"`
	CanonicalURL    *string   `gorm:"size:1024" json:"canonicalUrl"`
	OgTitle         *string   `gorm:"size:255" json:"ogTitle"`
	OgDescription   *string   `gorm:"type:text" json:"ogDescription"`
	OgImageURL      *string   `gorm:"size:1024" json:"ogImageUrl"`
	Robots          *string   `gorm:"size:64" json:"robots"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// TableName 自定义表名。
func (PageSeo) TableName() string {
	return "page_seos"
}
