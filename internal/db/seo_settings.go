package db

import "time"

// SeoSettingsID pins the site-wide defaults row so only one can exist.
const SeoSettingsID uint = 1

// SeoSettings 存储站点级的 SEO 默认值。
type SeoSettings struct {
	ID                     uint      `gorm:"primaryKey;autoIncrement:false" json:"-"`
	SiteName               string    `gorm:"size:255" json:"siteName"`
	TitleTemplate          string    `gorm:"size:255" json:"titleTemplate"`
	DefaultMetaDescription string    `gorm:"type:text" json:"defaultMetaDescription"`
	DefaultOgImageURL      string    `gorm:"size:1024" json:"defaultOgImageUrl"`
	DefaultFaviconURL      string    `gorm:"size:1024" json:"defaultFaviconUrl"`
	CreatedAt              time.Time `json:"-"`
	UpdatedAt              time.Time `json:"-"`
}

// TableName keeps the table name singular-agnostic across drivers.
func (SeoSettings) TableName() string {
	return "seo_settings"
}
