package db

import "time"

// JobPosting is an opening listed on the careers page.
type JobPosting struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Slug           string    `gorm:"size:191;uniqueIndex;not null" json:"slug"`
	Title          string    `gorm:"size:255;not null" json:"title"`
	Department     string    `gorm:"size:120" json:"department"`
	Location       string    `gorm:"size:120" json:"location"`
	EmploymentType string    `gorm:"size:64" json:"employmentType"`
	Description    string    `gorm:"type:text" json:"description"`
	IsOpen         bool      `gorm:"not null;index" json:"isOpen"`
	Order          int       `gorm:"column:sort_order;not null" json:"order"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
