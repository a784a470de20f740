package service

import (
	"context"
	"errors"
	"strings"

	"github.com/realwork/site/internal/db"
	"github.com/rotisserie/eris"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Robots directives accepted without normalization warnings.
const (
	RobotsIndexFollow     = "index,follow"
	RobotsIndexNoFollow   = "index,nofollow"
	RobotsNoIndexFollow   = "noindex,follow"
	RobotsNoIndexNoFollow = "noindex,nofollow"
)

// PageSeoInput replaces every override field; nil or blank clears it.
type PageSeoInput struct {
	MetaTitle       *string
	MetaDescription *string
	CanonicalURL    *string
	OgTitle         *string
	OgDescription   *string
	OgImageURL      *string
	Robots          *string
}

// PageSeoService stores per-page SEO overrides, one row per page.
type PageSeoService struct {
	db *gorm.DB
}

// NewPageSeoService constructs a PageSeoService.
func NewPageSeoService(gdb *gorm.DB) *PageSeoService {
	return &PageSeoService{db: gdb}
}

// GetByPageID returns the override for a page, or nil when none exists.
func (s *PageSeoService) GetByPageID(ctx context.Context, pageID uint) (*db.PageSeo, error) {
	var override db.PageSeo
	if err := s.db.WithContext(ctx).Where("page_id = ?", pageID).First(&override).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "loading page seo for page %d", pageID)
	}
	return &override, nil
}

// UpsertByPageID writes the override row for a page atomically.
func (s *PageSeoService) UpsertByPageID(ctx context.Context, pageID uint, input PageSeoInput) (*db.PageSeo, error) {
	if pageID == 0 {
		return nil, invalid("pageId", "page id is required")
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&db.Page{}).Where("id = ?", pageID).Count(&count).Error; err != nil {
		return nil, eris.Wrapf(err, "checking page %d", pageID)
	}
	if count == 0 {
		return nil, ErrPageNotFound
	}

	override := db.PageSeo{
		PageID:          pageID,
		MetaTitle:       optionalString(input.MetaTitle),
		MetaDescription: optionalString(input.MetaDescription),
		CanonicalURL:    optionalString(input.CanonicalURL),
		OgTitle:         optionalString(input.OgTitle),
		OgDescription:   optionalString(input.OgDescription),
		OgImageURL:      optionalString(input.OgImageURL),
		Robots:          NormalizeRobots(input.Robots),
	}

	if err := s.db.WithContext(ctx).Omit("Page").Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "page_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"meta_title", "meta_description", "canonical_url", "og_title",
			"og_description", "og_image_url", "robots", "updated_at",
		}),
	}).Create(&override).Error; err != nil {
		return nil, eris.Wrapf(err, "upserting page seo for page %d", pageID)
	}

	return s.GetByPageID(ctx, pageID)
}

// NormalizeRobots collapses whitespace and case so "Index, Follow" is stored
// as "index,follow". Unrecognized directives are kept as free text.
func NormalizeRobots(raw *string) *string {
	value := optionalString(raw)
	if value == nil {
		return nil
	}
	parts := strings.Split(*value, ",")
	cleaned := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.ToLower(strings.TrimSpace(part)); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	if len(cleaned) == 0 {
		return nil
	}
	joined := strings.Join(cleaned, ",")
	return &joined
}

func optionalString(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
