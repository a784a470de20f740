package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/realwork/site/internal/db"
	"github.com/rotisserie/eris"
	"gorm.io/gorm"
)

// BlogFilter narrows post listings.
type BlogFilter struct {
	Status  string
	Page    int
	PerPage int
}

// BlogListResult aggregates paginated list data.
type BlogListResult struct {
	Posts      []db.BlogPost
	Total      int64
	TotalPages int
	Page       int
	PerPage    int
}

// BlogPostInput captures editable post fields.
type BlogPostInput struct {
	Slug          string
	Title         string
	Excerpt       string
	Content       string
	CoverImageURL string
	Author        string
	Status        string
}

// BlogService wraps blog post operations.
type BlogService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewBlogService creates a BlogService instance.
func NewBlogService(gdb *gorm.DB) *BlogService {
	return &BlogService{db: gdb, now: time.Now}
}

// List returns posts newest first. Published posts sort by publish time.
func (s *BlogService) List(ctx context.Context, filter BlogFilter) (*BlogListResult, error) {
	result := &BlogListResult{Page: filter.Page, PerPage: filter.PerPage}
	if result.Page <= 0 {
		result.Page = 1
	}
	if result.PerPage <= 0 {
		result.PerPage = 10
	}
	if result.PerPage > 50 {
		result.PerPage = 50
	}

	query := s.db.WithContext(ctx).Model(&db.BlogPost{})
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&result.Total).Error; err != nil {
		return nil, eris.Wrap(err, "counting blog posts")
	}

	offset := (result.Page - 1) * result.PerPage
	if err := query.
		Order("published_at desc").
		Order("created_at desc").
		Order("id desc").
		Offset(offset).
		Limit(result.PerPage).
		Find(&result.Posts).Error; err != nil {
		return nil, eris.Wrap(err, "listing blog posts")
	}

	result.TotalPages = int((result.Total + int64(result.PerPage) - 1) / int64(result.PerPage))
	return result, nil
}

// ListPublished returns every published post, used by the sitemap.
func (s *BlogService) ListPublished(ctx context.Context) ([]db.BlogPost, error) {
	var posts []db.BlogPost
	if err := s.db.WithContext(ctx).
		Where("status = ?", db.PostStatusPublished).
		Order("published_at desc").
		Find(&posts).Error; err != nil {
		return nil, eris.Wrap(err, "listing published posts")
	}
	return posts, nil
}

// Get fetches a post by id.
func (s *BlogService) Get(ctx context.Context, id uint) (*db.BlogPost, error) {
	var post db.BlogPost
	if err := s.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, eris.Wrapf(err, "loading blog post %d", id)
	}
	return &post, nil
}

// GetPublishedBySlug fetches a published post for public rendering.
func (s *BlogService) GetPublishedBySlug(ctx context.Context, slug string) (*db.BlogPost, error) {
	var post db.BlogPost
	err := s.db.WithContext(ctx).
		Where("slug = ? AND status = ?", NormalizeSlug(slug), db.PostStatusPublished).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, eris.Wrapf(err, "loading blog post %s", slug)
	}
	return &post, nil
}

// Create persists a new post.
func (s *BlogService) Create(ctx context.Context, input BlogPostInput) (*db.BlogPost, error) {
	post := db.BlogPost{}
	if err := s.apply(&post, input); err != nil {
		return nil, err
	}
	if err := s.ensureSlugFree(ctx, post.Slug, 0); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(&post).Error; err != nil {
		return nil, eris.Wrap(err, "creating blog post")
	}
	return &post, nil
}

// Update applies updates to an existing post.
func (s *BlogService) Update(ctx context.Context, id uint, input BlogPostInput) (*db.BlogPost, error) {
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(post, input); err != nil {
		return nil, err
	}
	if err := s.ensureSlugFree(ctx, post.Slug, post.ID); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Save(post).Error; err != nil {
		return nil, eris.Wrapf(err, "updating blog post %d", id)
	}
	return post, nil
}

// Delete removes a post.
func (s *BlogService) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&db.BlogPost{}, id)
	if result.Error != nil {
		return eris.Wrapf(result.Error, "deleting blog post %d", id)
	}
	if result.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (s *BlogService) apply(post *db.BlogPost, input BlogPostInput) error {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return invalid("title", "title is required")
	}

	status := strings.ToLower(strings.TrimSpace(input.Status))
	if status == "" {
		status = db.PostStatusDraft
	}
	if status != db.PostStatusDraft && status != db.PostStatusPublished {
		return invalid("status", "status must be draft or published")
	}

	slug := slugOrDerived(input.Slug, title)
	if slug == "" {
		return invalid("slug", "slug is required")
	}

	post.Slug = slug
	post.Title = title
	post.Excerpt = strings.TrimSpace(input.Excerpt)
	post.Content = input.Content
	post.CoverImageURL = strings.TrimSpace(input.CoverImageURL)
	post.Author = strings.TrimSpace(input.Author)
	post.Status = status
	if status == db.PostStatusPublished && post.PublishedAt == nil {
		now := s.now().UTC()
		post.PublishedAt = &now
	}
	return nil
}

func (s *BlogService) ensureSlugFree(ctx context.Context, slug string, selfID uint) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&db.BlogPost{}).
		Where("slug = ? AND id <> ?", slug, selfID).
		Count(&count).Error; err != nil {
		return eris.Wrap(err, "checking blog slug")
	}
	if count > 0 {
		return ErrSlugTaken
	}
	return nil
}
