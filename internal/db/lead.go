package db

import "time"

// Lead 保存联系表单提交的线索。
type Lead struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Reference string    `gorm:"size:36;uniqueIndex;not null" json:"reference"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;index;not null" json:"email"`
	Company   string    `gorm:"size:255" json:"company"`
	Phone     string    `gorm:"size:64" json:"phone"`
	Division  string    `gorm:"size:191" json:"division"`
	Message   string    `gorm:"type:text" json:"message"`
	SourceIP  string    `gorm:"size:64" json:"-"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}
