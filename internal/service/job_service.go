package service

import (
	"context"
	"errors"
	"strings"

	"github.com/realwork/site/internal/db"
	"github.com/rotisserie/eris"
	"gorm.io/gorm"
)

// JobPostingInput captures editable job fields.
type JobPostingInput struct {
	Slug           string
	Title          string
	Department     string
	Location       string
	EmploymentType string
	Description    string
	IsOpen         *bool
	Order          *int
}

// JobService manages careers listings.
type JobService struct {
	db *gorm.DB
}

// NewJobService creates a JobService instance.
func NewJobService(gdb *gorm.DB) *JobService {
	return &JobService{db: gdb}
}

// List returns postings in display order.
func (s *JobService) List(ctx context.Context, openOnly bool) ([]db.JobPosting, error) {
	query := s.db.WithContext(ctx).Model(&db.JobPosting{})
	if openOnly {
		query = query.Where("is_open = ?", true)
	}

	var jobs []db.JobPosting
	if err := query.Order("sort_order asc").Order("created_at desc").Find(&jobs).Error; err != nil {
		return nil, eris.Wrap(err, "listing job postings")
	}
	return jobs, nil
}

// GetOpenBySlug fetches an open posting for the public careers page.
func (s *JobService) GetOpenBySlug(ctx context.Context, slug string) (*db.JobPosting, error) {
	var job db.JobPosting
	err := s.db.WithContext(ctx).
		Where("slug = ? AND is_open = ?", NormalizeSlug(slug), true).
		First(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, eris.Wrapf(err, "loading job posting %s", slug)
	}
	return &job, nil
}

// Create inserts a posting. New postings are open unless stated otherwise.
func (s *JobService) Create(ctx context.Context, input JobPostingInput) (*db.JobPosting, error) {
	job := db.JobPosting{IsOpen: true}
	if err := applyJobInput(&job, input); err != nil {
		return nil, err
	}
	if err := s.ensureSlugFree(ctx, job.Slug, 0); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(&job).Error; err != nil {
		return nil, eris.Wrap(err, "creating job posting")
	}
	return &job, nil
}

// Update changes an existing posting.
func (s *JobService) Update(ctx context.Context, id uint, input JobPostingInput) (*db.JobPosting, error) {
	var job db.JobPosting
	if err := s.db.WithContext(ctx).First(&job, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, eris.Wrapf(err, "loading job posting %d", id)
	}
	if err := applyJobInput(&job, input); err != nil {
		return nil, err
	}
	if err := s.ensureSlugFree(ctx, job.Slug, job.ID); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Save(&job).Error; err != nil {
		return nil, eris.Wrapf(err, "updating job posting %d", id)
	}
	return &job, nil
}

// Delete removes a posting.
func (s *JobService) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&db.JobPosting{}, id)
	if result.Error != nil {
		return eris.Wrapf(result.Error, "deleting job posting %d", id)
	}
	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (s *JobService) ensureSlugFree(ctx context.Context, slug string, selfID uint) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&db.JobPosting{}).
		Where("slug = ? AND id <> ?", slug, selfID).
		Count(&count).Error; err != nil {
		return eris.Wrap(err, "checking job slug")
	}
	if count > 0 {
		return ErrSlugTaken
	}
	return nil
}

func applyJobInput(job *db.JobPosting, input JobPostingInput) error {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return invalid("title", "title is required")
	}
	slug := slugOrDerived(input.Slug, title)
	if slug == "" {
		return invalid("slug", "slug is required")
	}

	job.Slug = slug
	job.Title = title
	job.Department = strings.TrimSpace(input.Department)
	job.Location = strings.TrimSpace(input.Location)
	job.EmploymentType = strings.TrimSpace(input.EmploymentType)
	job.Description = strings.TrimSpace(input.Description)
	if input.IsOpen != nil {
		job.IsOpen = *input.IsOpen
	}
	if input.Order != nil {
		job.Order = *input.Order
	}
	return nil
}
