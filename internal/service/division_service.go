package service

import (
	"context"
	"errors"
	"strings"

	"github.com/realwork/site/internal/db"
	"github.com/rotisserie/eris"
	"gorm.io/gorm"
)

// DivisionInput captures editable division fields.
type DivisionInput struct {
	Slug        string
	Name        string
	Kind        string
	Summary     string
	Description string
	ImageURL    string
	PageType    string
	IsActive    *bool
	Order       *int
}

// DivisionService manages programs, services and products.
type DivisionService struct {
	db *gorm.DB
}

// NewDivisionService creates a DivisionService instance.
func NewDivisionService(gdb *gorm.DB) *DivisionService {
	return &DivisionService{db: gdb}
}

// List returns divisions ordered by configured sort order.
func (s *DivisionService) List(ctx context.Context, activeOnly bool) ([]db.Division, error) {
	query := s.db.WithContext(ctx).Model(&db.Division{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var divisions []db.Division
	if err := query.Order("sort_order asc").Order("name asc").Order("id asc").Find(&divisions).Error; err != nil {
		return nil, eris.Wrap(err, "listing divisions")
	}
	return divisions, nil
}

// GetActiveBySlug fetches a public division.
func (s *DivisionService) GetActiveBySlug(ctx context.Context, slug string) (*db.Division, error) {
	var division db.Division
	err := s.db.WithContext(ctx).
		Where("slug = ? AND is_active = ?", NormalizeSlug(slug), true).
		First(&division).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDivisionNotFound
		}
		return nil, eris.Wrapf(err, "loading division %s", slug)
	}
	return &division, nil
}

// Create inserts a division, appending it to the end of the order when no
// order is given.
func (s *DivisionService) Create(ctx context.Context, input DivisionInput) (*db.Division, error) {
	division := db.Division{IsActive: true}
	if err := applyDivisionInput(&division, input); err != nil {
		return nil, err
	}
	if input.Order == nil {
		next, err := s.nextSortOrder(ctx)
		if err != nil {
			return nil, err
		}
		division.Order = next
	}
	if err := s.ensureSlugFree(ctx, division.Slug, 0); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(&division).Error; err != nil {
		return nil, eris.Wrap(err, "creating division")
	}
	return &division, nil
}

// Update changes an existing division.
func (s *DivisionService) Update(ctx context.Context, id uint, input DivisionInput) (*db.Division, error) {
	var division db.Division
	if err := s.db.WithContext(ctx).First(&division, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDivisionNotFound
		}
		return nil, eris.Wrapf(err, "loading division %d", id)
	}
	if err := applyDivisionInput(&division, input); err != nil {
		return nil, err
	}
	if err := s.ensureSlugFree(ctx, division.Slug, division.ID); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Save(&division).Error; err != nil {
		return nil, eris.Wrapf(err, "updating division %d", id)
	}
	return &division, nil
}

// Delete removes a division.
func (s *DivisionService) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&db.Division{}, id)
	if result.Error != nil {
		return eris.Wrapf(result.Error, "deleting division %d", id)
	}
	if result.RowsAffected == 0 {
		return ErrDivisionNotFound
	}
	return nil
}

func (s *DivisionService) nextSortOrder(ctx context.Context) (int, error) {
	var row struct {
		Value *int
	}
	if err := s.db.WithContext(ctx).Model(&db.Division{}).Select("MAX(sort_order) AS value").Scan(&row).Error; err != nil {
		return 0, eris.Wrap(err, "reading division sort order")
	}
	if row.Value == nil {
		return 0, nil
	}
	return *row.Value + 1, nil
}

func (s *DivisionService) ensureSlugFree(ctx context.Context, slug string, selfID uint) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&db.Division{}).
		Where("slug = ? AND id <> ?", slug, selfID).
		Count(&count).Error; err != nil {
		return eris.Wrap(err, "checking division slug")
	}
	if count > 0 {
		return ErrSlugTaken
	}
	return nil
}

func applyDivisionInput(division *db.Division, input DivisionInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return invalid("name", "name is required")
	}

	kind := strings.ToLower(strings.TrimSpace(input.Kind))
	switch kind {
	case "":
		kind = db.DivisionKindProgram
	case db.DivisionKindProgram, db.DivisionKindService, db.DivisionKindProduct:
	default:
		return invalid("kind", "kind must be program, service or product")
	}

	pageType := db.PageTypeMainSite
	if strings.TrimSpace(input.PageType) != "" {
		parsed, ok := db.ParsePageType(input.PageType)
		if !ok || parsed == db.PageTypeAdmin {
			return invalid("pageType", "unknown page type")
		}
		pageType = parsed
	}

	slug := slugOrDerived(input.Slug, name)
	if slug == "" {
		return invalid("slug", "slug is required")
	}

	division.Slug = slug
	division.Name = name
	division.Kind = kind
	division.Summary = strings.TrimSpace(input.Summary)
	division.Description = strings.TrimSpace(input.Description)
	division.ImageURL = strings.TrimSpace(input.ImageURL)
	division.PageType = pageType
	if input.IsActive != nil {
		division.IsActive = *input.IsActive
	}
	if input.Order != nil {
		division.Order = *input.Order
	}
	return nil
}
