package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/realwork/site/internal/db"
	"github.com/rotisserie/eris"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	defaultChangeFrequency = db.ChangeWeekly
	defaultPriority        = 0.5
)

// PageService is the page registry: canonical page records keyed by slug.
type PageService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewPageService returns a new PageService instance.
func NewPageService(gdb *gorm.DB) *PageService {
	return &PageService{db: gdb, now: time.Now}
}

// PageInput carries admin edits. Nil fields keep the stored value, or the
// default when the page is new.
type PageInput struct {
	RoutePath       *string
	PageType        *string
	IsIndexable     *bool
	ChangeFrequency *string
	Priority        *float64
}

// NormalizeSlug lowercases the slug and strips surrounding whitespace and slashes.
func NormalizeSlug(slug string) string {
	return strings.ToLower(strings.Trim(strings.TrimSpace(slug), "/"))
}

// FindBySlug fetches a page for a given slug, matching case-insensitively.
func (s *PageService) FindBySlug(ctx context.Context, slug string) (*db.Page, error) {
	normalized := NormalizeSlug(slug)
	if normalized == "" {
		return nil, ErrPageNotFound
	}

	var page db.Page
	if err := s.db.WithContext(ctx).Where("slug = ?", normalized).First(&page).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, eris.Wrapf(err, "fetching page by slug: %s", normalized)
	}
	return &page, nil
}

// FindByRoutePath fetches a page by its registered route.
func (s *PageService) FindByRoutePath(ctx context.Context, routePath string) (*db.Page, error) {
	path := normalizeRoutePath(routePath)

	var page db.Page
	if err := s.db.WithContext(ctx).Where("route_path = ?", path).First(&page).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, eris.Wrapf(err, "fetching page by route: %s", path)
	}
	return &page, nil
}

// List returns every registered page ordered by route.
func (s *PageService) List(ctx context.Context) ([]db.Page, error) {
	var pages []db.Page
	if err := s.db.WithContext(ctx).Order("route_path asc").Order("slug asc").Find(&pages).Error; err != nil {
		return nil, eris.Wrap(err, "listing pages")
	}
	return pages, nil
}

// ListIndexable returns pages eligible for the sitemap.
func (s *PageService) ListIndexable(ctx context.Context) ([]db.Page, error) {
	var pages []db.Page
	if err := s.db.WithContext(ctx).
		Where("is_indexable = ? AND page_type <> ?", true, db.PageTypeAdmin).
		Order("priority desc").
		Order("route_path asc").
		Find(&pages).Error; err != nil {
		return nil, eris.Wrap(err, "listing indexable pages")
	}
	return pages, nil
}

// Upsert creates or updates the page identified by slug in one statement.
func (s *PageService) Upsert(ctx context.Context, slug string, input PageInput) (*db.Page, error) {
	normalized := NormalizeSlug(slug)
	if normalized == "" {
		return nil, invalid("slug", "slug is required")
	}

	page := db.Page{
		Slug:            normalized,
		RoutePath:       defaultRoutePath(normalized),
		PageType:        db.PageTypeMainSite,
		IsIndexable:     true,
		ChangeFrequency: defaultChangeFrequency,
		Priority:        defaultPriority,
	}

	existing, err := s.FindBySlug(ctx, normalized)
	switch {
	case err == nil:
		page = *existing
		page.ID = 0
		page.UpdatedAt = time.Time{}
	case !errors.Is(err, ErrPageNotFound):
		return nil, err
	}

	if err := applyPageInput(&page, input); err != nil {
		return nil, err
	}
	page.LastModified = s.now().UTC()

	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"route_path", "page_type", "is_indexable", "change_frequency",
			"priority", "last_modified", "updated_at",
		}),
	}).Create(&page).Error; err != nil {
		return nil, eris.Wrapf(err, "upserting page: %s", normalized)
	}

	return s.FindBySlug(ctx, normalized)
}

// SeedDefaults registers the canonical page set, leaving existing rows untouched.
func (s *PageService) SeedDefaults(ctx context.Context) error {
	now := s.now().UTC()
	pages := DefaultPages()
	for i := range pages {
		pages[i].LastModified = now
	}

	if err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "slug"}}, DoNothing: true}).
		Create(&pages).Error; err != nil {
		return eris.Wrap(err, "seeding default pages")
	}
	return nil
}

// DefaultPages lists the routes the public site ships with.
func DefaultPages() []db.Page {
	return []db.Page{
		{Slug: "home", RoutePath: "/", PageType: db.PageTypeMainSite, IsIndexable: true, ChangeFrequency: db.ChangeWeekly, Priority: 1.0},
		{Slug: "divisions", RoutePath: "/divisions", PageType: db.PageTypeMainSite, IsIndexable: true, ChangeFrequency: db.ChangeMonthly, Priority: 0.8},
		{Slug: "products", RoutePath: "/products", PageType: db.PageTypeProduct, IsIndexable: true, ChangeFrequency: db.ChangeMonthly, Priority: 0.8},
		{Slug: "realwork-studio", RoutePath: "/realwork-studio", PageType: db.PageTypeRealworkStudio, IsIndexable: true, ChangeFrequency: db.ChangeMonthly, Priority: 0.7},
		{Slug: "techworks-studio", RoutePath: "/techworks-studio", PageType: db.PageTypeTechworksStudio, IsIndexable: true, ChangeFrequency: db.ChangeMonthly, Priority: 0.7},
		{Slug: "blog", RoutePath: "/blog", PageType: db.PageTypeMainSite, IsIndexable: true, ChangeFrequency: db.ChangeDaily, Priority: 0.7},
		{Slug: "careers", RoutePath: "/careers", PageType: db.PageTypeMainSite, IsIndexable: true, ChangeFrequency: db.ChangeWeekly, Priority: 0.6},
		{Slug: "admin", RoutePath: "/admin", PageType: db.PageTypeAdmin, IsIndexable: false, ChangeFrequency: db.ChangeNever, Priority: 0},
	}
}

func applyPageInput(page *db.Page, input PageInput) error {
	if input.RoutePath != nil {
		path := normalizeRoutePath(*input.RoutePath)
		if strings.ContainsAny(path, " ?#") {
			return invalid("routePath", "route path must be a plain path")
		}
		page.RoutePath = path
	}
	if input.PageType != nil {
		pageType, ok := db.ParsePageType(*input.PageType)
		if !ok {
			return invalid("pageType", "unknown page type")
		}
		page.PageType = pageType
	}
	if input.IsIndexable != nil {
		page.IsIndexable = *input.IsIndexable
	}
	if input.ChangeFrequency != nil {
		freq, ok := db.ParseChangeFrequency(*input.ChangeFrequency)
		if !ok {
			return invalid("changeFrequency", "unknown change frequency")
		}
		page.ChangeFrequency = freq
	}
	if input.Priority != nil {
		if *input.Priority < 0 || *input.Priority > 1 {
			return invalid("priority", "priority must be between 0 and 1")
		}
		page.Priority = *input.Priority
	}
	return nil
}

func defaultRoutePath(slug string) string {
	if slug == "home" {
		return "/"
	}
	return "/" + slug
}

func normalizeRoutePath(path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" || trimmed == "/" {
		return "/"
	}
	if !strings.HasPrefix(trimmed, "/") {
		trimmed = "/" + trimmed
	}
	return strings.TrimRight(trimmed, "/")
}
