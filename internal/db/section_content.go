package db

import (
	"time"

	"gorm.io/datatypes"
)

// SectionContent is an admin-editable block keyed by (page name, section key).
type SectionContent struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	PageName     string         `gorm:"size:191;not null;uniqueIndex:idx_section_page_key,priority:1" json:"pageName"`
	SectionKey   string         `gorm:"size:191;not null;uniqueIndex:idx_section_page_key,priority:2" json:"sectionKey"`
	Title        *string        `gorm:"size:255" json:"title"`
	Subtitle     *string        `gorm:"size:255" json:"subtitle"`
	Description  *string        `gorm:"type:text" json:"description"`
	Content      datatypes.JSON `gorm:"not null" json:"content"`
	VisionTitle  *string        `gorm:"size:255" json:"visionTitle"`
	VisionDesc   *string        `gorm:"type:text" json:"visionDesc"`
	MissionTitle *string        `gorm:"size:255" json:"missionTitle"`
	MissionDesc  *string        `gorm:"type:text" json:"missionDesc"`
	IsActive     bool           `gorm:"not null" json:"isActive"`
	Order        int            `gorm:"column:sort_order;not null" json:"order"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// TableName 自定义表名。
func (SectionContent) TableName() string {
	return "section_contents"
}
