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

// DefaultTitleTemplate renders the page title unchanged.
const DefaultTitleTemplate = "%s"

// FallbackSeoSettings 返回未配置时使用的站点默认值，该值不会写入数据库。
func FallbackSeoSettings() db.SeoSettings {
	return db.SeoSettings{
		SiteName:               "",
		TitleTemplate:          DefaultTitleTemplate,
		DefaultMetaDescription: "",
		DefaultOgImageURL:      "",
		DefaultFaviconURL:      "",
	}
}

// SeoSettingsInput 用于更新站点 SEO 默认值，nil 字段保持原值。
type SeoSettingsInput struct {
	SiteName               *string
	TitleTemplate          *string
	DefaultMetaDescription *string
	DefaultOgImageURL      *string
	DefaultFaviconURL      *string
}

// SeoSettingsService 提供站点级 SEO 默认值的读取与更新能力。
type SeoSettingsService struct {
	db *gorm.DB
}

// NewSeoSettingsService 构造 SeoSettingsService。
func NewSeoSettingsService(gdb *gorm.DB) *SeoSettingsService {
	return &SeoSettingsService{db: gdb}
}

// GetDefaults 读取站点默认值，如未设置将返回 FallbackSeoSettings。
func (s *SeoSettingsService) GetDefaults(ctx context.Context) (db.SeoSettings, error) {
	var settings db.SeoSettings
	err := s.db.WithContext(ctx).Where("id = ?", db.SeoSettingsID).First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return FallbackSeoSettings(), nil
		}
		return FallbackSeoSettings(), eris.Wrap(err, "loading seo settings")
	}
	if strings.TrimSpace(settings.TitleTemplate) == "" {
		settings.TitleTemplate = DefaultTitleTemplate
	}
	return settings, nil
}

// UpsertDefaults 合并输入并以单条 upsert 语句写入唯一的设置行。
func (s *SeoSettingsService) UpsertDefaults(ctx context.Context, input SeoSettingsInput) (db.SeoSettings, error) {
	current, err := s.GetDefaults(ctx)
	if err != nil {
		return db.SeoSettings{}, err
	}

	merged := current
	merged.ID = db.SeoSettingsID
	// 清零后由 gorm 重新写入当前时间。
	merged.UpdatedAt = time.Time{}
	setTrimmed(&merged.SiteName, input.SiteName)
	setTrimmed(&merged.TitleTemplate, input.TitleTemplate)
	setTrimmed(&merged.DefaultMetaDescription, input.DefaultMetaDescription)
	setTrimmed(&merged.DefaultOgImageURL, input.DefaultOgImageURL)
	setTrimmed(&merged.DefaultFaviconURL, input.DefaultFaviconURL)

	if merged.TitleTemplate == "" {
		merged.TitleTemplate = DefaultTitleTemplate
	}
	if strings.Count(merged.TitleTemplate, "%s") > 1 {
		return db.SeoSettings{}, invalid("titleTemplate", "title template may contain at most one %s placeholder")
	}

	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"site_name", "title_template", "default_meta_description",
			"default_og_image_url", "default_favicon_url", "updated_at",
		}),
	}).Create(&merged).Error; err != nil {
		return db.SeoSettings{}, eris.Wrap(err, "upserting seo settings")
	}

	return s.GetDefaults(ctx)
}

func setTrimmed(dst *string, value *string) {
	if value != nil {
		*dst = strings.TrimSpace(*value)
	}
}
