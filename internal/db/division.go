package db

import "time"

const (
	DivisionKindProgram = "program"
	DivisionKindService = "service"
	DivisionKindProduct = "product"
)

// Division 表示站点展示的业务板块（项目、服务或产品）。
// Order 值越小越靠前。
type Division struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Slug        string    `gorm:"size:191;uniqueIndex;not null" json:"slug"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Kind        string    `gorm:"size:16;index;not null" json:"kind"`
	Summary     string    `gorm:"type:text" json:"summary"`
	Description string    `gorm:"type:text" json:"description"`
	ImageURL    string    `gorm:"size:1024" json:"imageUrl"`
	PageType    PageType  `gorm:"size:32;not null" json:"pageType"`
	IsActive    bool      `gorm:"not null" json:"isActive"`
	Order       int       `gorm:"column:sort_order;not null" json:"order"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
