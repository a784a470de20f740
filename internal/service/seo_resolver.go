package service

import (
	"context"
	"errors"
	"strings"

	"github.com/realwork/site/internal/db"
)

// ResolvedSeo is the composed SEO record for a route. SEO fields are null
// when neither an override nor a computed value applies.
type ResolvedSeo struct {
	Slug            string      `json:"slug"`
	RoutePath       *string     `json:"routePath,omitempty"`
	PageType        db.PageType `json:"pageType,omitempty"`
	IsIndexable     *bool       `json:"isIndexable,omitempty"`
	Title           *string     `json:"title,omitempty"`
	MetaTitle       *string     `json:"metaTitle"`
	MetaDescription *string     `json:"metaDescription"`
	CanonicalURL    *string     `json:"canonicalUrl"`
	OgTitle         *string     `json:"ogTitle"`
	OgDescription   *string     `json:"ogDescription"`
	OgImageURL      *string     `json:"ogImageUrl"`
	Robots          *string     `json:"robots"`
}

type pageFinder interface {
	FindBySlug(ctx context.Context, slug string) (*db.Page, error)
	FindByRoutePath(ctx context.Context, routePath string) (*db.Page, error)
}

type overrideFinder interface {
	GetByPageID(ctx context.Context, pageID uint) (*db.PageSeo, error)
}

type defaultsProvider interface {
	GetDefaults(ctx context.Context) (db.SeoSettings, error)
}

// SeoResolver composes Page, PageSeo and SeoSettings into a ResolvedSeo.
type SeoResolver struct {
	pages     pageFinder
	overrides overrideFinder
	defaults  defaultsProvider
	baseURL   string
}

// NewSeoResolver wires the resolver to its stores.
func NewSeoResolver(pages pageFinder, overrides overrideFinder, defaults defaultsProvider, siteBaseURL string) *SeoResolver {
	return &SeoResolver{
		pages:     pages,
		overrides: overrides,
		defaults:  defaults,
		baseURL:   strings.TrimRight(strings.TrimSpace(siteBaseURL), "/"),
	}
}

// ResolvePageSeo resolves the SEO record for a registered slug. Unknown slugs
// yield a minimal record with every SEO field null, never an error.
func (r *SeoResolver) ResolvePageSeo(ctx context.Context, slug string) (ResolvedSeo, error) {
	normalized := NormalizeSlug(slug)
	page, err := r.pages.FindBySlug(ctx, normalized)
	if err != nil {
		if errors.Is(err, ErrPageNotFound) {
			return ResolvedSeo{Slug: normalized}, nil
		}
		return ResolvedSeo{}, err
	}
	return r.compose(ctx, page)
}

// ResolveByPageName accepts either a slug or a route path ("about",
// "/about", "" for home) and resolves it with the same null-safe contract.
func (r *SeoResolver) ResolveByPageName(ctx context.Context, pageName string) (ResolvedSeo, error) {
	normalized := NormalizeSlug(pageName)
	if normalized == "" {
		normalized = "home"
	}

	page, err := r.pages.FindBySlug(ctx, normalized)
	if errors.Is(err, ErrPageNotFound) {
		page, err = r.pages.FindByRoutePath(ctx, "/"+normalized)
		if errors.Is(err, ErrPageNotFound) && normalized == "home" {
			page, err = r.pages.FindByRoutePath(ctx, "/")
		}
	}
	if err != nil {
		if errors.Is(err, ErrPageNotFound) {
			return ResolvedSeo{Slug: normalized}, nil
		}
		return ResolvedSeo{}, err
	}
	return r.compose(ctx, page)
}

func (r *SeoResolver) compose(ctx context.Context, page *db.Page) (ResolvedSeo, error) {
	override, err := r.overrides.GetByPageID(ctx, page.ID)
	if err != nil {
		return ResolvedSeo{}, err
	}

	defaults, err := r.defaults.GetDefaults(ctx)
	if err != nil {
		return ResolvedSeo{}, err
	}

	routePath := page.RoutePath
	indexable := EffectiveIndexable(page)
	resolved := ResolvedSeo{
		Slug:        page.Slug,
		RoutePath:   &routePath,
		PageType:    page.PageType,
		IsIndexable: &indexable,
	}

	var overrideRobots *string
	if override != nil {
		resolved.MetaTitle = override.MetaTitle
		resolved.MetaDescription = override.MetaDescription
		resolved.CanonicalURL = override.CanonicalURL
		resolved.OgTitle = override.OgTitle
		resolved.OgDescription = override.OgDescription
		resolved.OgImageURL = override.OgImageURL
		overrideRobots = override.Robots
	}

	robots := EffectiveRobots(page, overrideRobots)
	resolved.Robots = &robots

	if resolved.CanonicalURL == nil {
		canonical := CanonicalURL(r.baseURL, page.RoutePath)
		resolved.CanonicalURL = &canonical
	}

	metaTitle := ""
	if resolved.MetaTitle != nil {
		metaTitle = *resolved.MetaTitle
	}
	if title := ApplyTitleTemplate(defaults.TitleTemplate, metaTitle, defaults.SiteName); title != "" {
		resolved.Title = &title
	}

	return resolved, nil
}

// EffectiveIndexable is false for ADMIN pages regardless of the stored flag.
func EffectiveIndexable(page *db.Page) bool {
	return page.IsIndexable && page.PageType != db.PageTypeAdmin
}

// EffectiveRobots forces noindex,nofollow for admin or non-indexable pages,
// otherwise prefers the override and falls back to index,follow.
func EffectiveRobots(page *db.Page, override *string) string {
	if !EffectiveIndexable(page) {
		return RobotsNoIndexNoFollow
	}
	if override != nil && strings.TrimSpace(*override) != "" {
		return *override
	}
	return RobotsIndexFollow
}

// CanonicalURL joins the site base URL and a route path. The root route
// maps to the bare base URL.
func CanonicalURL(baseURL, routePath string) string {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	path := strings.TrimSpace(routePath)
	if path == "" || path == "/" {
		return base
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

// ApplyTitleTemplate substitutes the page title into the site template
// ("%s | Realwork"). Without a page title the site name is used on its own.
func ApplyTitleTemplate(template, title, siteName string) string {
	title = strings.TrimSpace(title)
	siteName = strings.TrimSpace(siteName)
	if title == "" {
		return siteName
	}

	template = strings.TrimSpace(template)
	if template == "" || !strings.Contains(template, "%s") {
		return title
	}
	return strings.Replace(template, "%s", title, 1)
}
