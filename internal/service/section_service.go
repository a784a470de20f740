package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/realwork/site/internal/db"
	"github.com/rotisserie/eris"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SectionInput is a full replacement of a section row.
type SectionInput struct {
	PageName     string
	SectionKey   string
	Title        *string
	Subtitle     *string
	Description  *string
	Content      json.RawMessage
	VisionTitle  *string
	VisionDesc   *string
	MissionTitle *string
	MissionDesc  *string
	IsActive     *bool
	Order        *int
}

// TypedSection is a stored section with its content decoded by section key.
type TypedSection struct {
	*db.SectionContent
	Kind SectionKind `json:"kind"`
	Body SectionBody `json:"body"`
}

// SectionService stores content blocks keyed by (page name, section key).
type SectionService struct {
	db *gorm.DB
}

// NewSectionService constructs a SectionService.
func NewSectionService(gdb *gorm.DB) *SectionService {
	return &SectionService{db: gdb}
}

// Get returns the section or nil when it has not been written yet.
func (s *SectionService) Get(ctx context.Context, pageName, sectionKey string) (*db.SectionContent, error) {
	pageName = strings.TrimSpace(pageName)
	sectionKey = strings.TrimSpace(sectionKey)
	if pageName == "" || sectionKey == "" {
		return nil, nil
	}

	var section db.SectionContent
	err := s.db.WithContext(ctx).
		Where("page_name = ? AND section_key = ?", pageName, sectionKey).
		First(&section).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "loading section %s/%s", pageName, sectionKey)
	}
	return &section, nil
}

// GetTyped is Get with the content decoded into its typed body.
func (s *SectionService) GetTyped(ctx context.Context, pageName, sectionKey string) (*TypedSection, error) {
	section, err := s.Get(ctx, pageName, sectionKey)
	if err != nil || section == nil {
		return nil, err
	}
	return NewTypedSection(section), nil
}

// ListTypedByPage is ListByPage with every section's content decoded.
func (s *SectionService) ListTypedByPage(ctx context.Context, pageName string, activeOnly bool) ([]TypedSection, error) {
	sections, err := s.ListByPage(ctx, pageName, activeOnly)
	if err != nil {
		return nil, err
	}
	typed := make([]TypedSection, 0, len(sections))
	for i := range sections {
		typed = append(typed, *NewTypedSection(&sections[i]))
	}
	return typed, nil
}

// NewTypedSection decodes a stored section. Content that no longer fits its
// typed shape is returned as generic JSON.
func NewTypedSection(section *db.SectionContent) *TypedSection {
	kind := SectionKindFor(section.SectionKey)
	body, err := DecodeSectionBody(section.SectionKey, section.Content)
	if err != nil {
		kind = SectionKindGeneric
		body = GenericSection{Raw: json.RawMessage(section.Content)}
	}
	return &TypedSection{SectionContent: section, Kind: kind, Body: body}
}

// ListByPage returns a page's sections in display order.
func (s *SectionService) ListByPage(ctx context.Context, pageName string, activeOnly bool) ([]db.SectionContent, error) {
	query := s.db.WithContext(ctx).Model(&db.SectionContent{})
	if trimmed := strings.TrimSpace(pageName); trimmed != "" {
		query = query.Where("page_name = ?", trimmed)
	}
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var sections []db.SectionContent
	if err := query.Order("page_name asc").Order("sort_order asc").Order("section_key asc").Find(&sections).Error; err != nil {
		return nil, eris.Wrap(err, "listing sections")
	}
	return sections, nil
}

// Upsert creates the section or overwrites every field of the existing one.
func (s *SectionService) Upsert(ctx context.Context, input SectionInput) (*db.SectionContent, error) {
	pageName := strings.TrimSpace(input.PageName)
	sectionKey := strings.TrimSpace(input.SectionKey)
	if pageName == "" {
		return nil, invalid("pageName", "pageName is required")
	}
	if sectionKey == "" {
		return nil, invalid("sectionKey", "sectionKey is required")
	}

	if _, err := DecodeSectionBody(sectionKey, input.Content); err != nil {
		return nil, err
	}

	section := db.SectionContent{
		PageName:     pageName,
		SectionKey:   sectionKey,
		Title:        optionalString(input.Title),
		Subtitle:     optionalString(input.Subtitle),
		Description:  optionalString(input.Description),
		Content:      normalizeContent(input.Content),
		VisionTitle:  optionalString(input.VisionTitle),
		VisionDesc:   optionalString(input.VisionDesc),
		MissionTitle: optionalString(input.MissionTitle),
		MissionDesc:  optionalString(input.MissionDesc),
		IsActive:     true,
	}
	if input.IsActive != nil {
		section.IsActive = *input.IsActive
	}
	if input.Order != nil {
		section.Order = *input.Order
	}

	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "page_name"}, {Name: "section_key"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "subtitle", "description", "content",
			"vision_title", "vision_desc", "mission_title", "mission_desc",
			"is_active", "sort_order", "updated_at",
		}),
	}).Create(&section).Error; err != nil {
		return nil, eris.Wrapf(err, "upserting section %s/%s", pageName, sectionKey)
	}

	return s.Get(ctx, pageName, sectionKey)
}

// Delete removes a section.
func (s *SectionService) Delete(ctx context.Context, pageName, sectionKey string) error {
	result := s.db.WithContext(ctx).
		Where("page_name = ? AND section_key = ?", strings.TrimSpace(pageName), strings.TrimSpace(sectionKey)).
		Delete(&db.SectionContent{})
	if result.Error != nil {
		return eris.Wrapf(result.Error, "deleting section %s/%s", pageName, sectionKey)
	}
	if result.RowsAffected == 0 {
		return ErrSectionNotFound
	}
	return nil
}

// normalizeContent stores absent content as a JSON null literal rather than
// SQL NULL so the column always scans into datatypes.JSON.
func normalizeContent(raw json.RawMessage) datatypes.JSON {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return datatypes.JSON("null")
	}
	return datatypes.JSON(append([]byte(nil), trimmed...))
}
