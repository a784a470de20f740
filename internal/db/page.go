package db

import (
	"strings"
	"time"
)

// PageType groups registered pages. ADMIN pages are never indexable.
type PageType string

const (
	PageTypeMainSite        PageType = "MAIN_SITE"
	PageTypeRealworkStudio  PageType = "REALWORK_STUDIO"
	PageTypeTechworksStudio PageType = "TECHWORKS_STUDIO"
	PageTypeProduct         PageType = "PRODUCT"
	PageTypeAdmin           PageType = "ADMIN"
)

// ParsePageType 解析页面类型，兼容历史上的 PUBLIC 取值。
func ParsePageType(raw string) (PageType, bool) {
	switch PageType(strings.ToUpper(strings.TrimSpace(raw))) {
	case PageTypeMainSite, "PUBLIC":
		return PageTypeMainSite, true
	case PageTypeRealworkStudio:
		return PageTypeRealworkStudio, true
	case PageTypeTechworksStudio:
		return PageTypeTechworksStudio, true
	case PageTypeProduct:
		return PageTypeProduct, true
	case PageTypeAdmin:
		return PageTypeAdmin, true
	}
	return "", false
}

// ChangeFrequency mirrors the sitemap changefreq vocabulary.
type ChangeFrequency string

const (
	ChangeAlways  ChangeFrequency = "always"
	ChangeHourly  ChangeFrequency = "hourly"
	ChangeDaily   ChangeFrequency = "daily"
	ChangeWeekly  ChangeFrequency = "weekly"
	ChangeMonthly ChangeFrequency = "monthly"
	ChangeYearly  ChangeFrequency = "yearly"
	ChangeNever   ChangeFrequency = "never"
)

// ParseChangeFrequency validates a changefreq value.
func ParseChangeFrequency(raw string) (ChangeFrequency, bool) {
	freq := ChangeFrequency(strings.ToLower(strings.TrimSpace(raw)))
	switch freq {
	case ChangeAlways, ChangeHourly, ChangeDaily, ChangeWeekly, ChangeMonthly, ChangeYearly, ChangeNever:
		return freq, true
	}
	return "", false
}

// Page is a registered route carrying indexability metadata.
type Page struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	Slug            string          `gorm:"size:191;uniqueIndex;not null" json:"slug"`
	RoutePath       string          `gorm:"size:255;index;not null" json:"routePath"`
	PageType        PageType        `gorm:"size:32;index;not null" json:"pageType"`
	IsIndexable     bool            `gorm:"not null" json:"isIndexable"`
	ChangeFrequency ChangeFrequency `gorm:"size:16;not null" json:"changeFrequency"`
	Priority        float64         `gorm:"not null" json:"priority"`
	LastModified    time.Time       `json:"lastModified"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}
