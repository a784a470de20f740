package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/realwork/site/internal/service"
)

type pageRequest struct {
	RoutePath       *string  `json:"routePath"`
	PageType        *string  `json:"pageType"`
	IsIndexable     *bool    `json:"isIndexable"`
	ChangeFrequency *string  `json:"changeFrequency"`
	Priority        *float64 `json:"priority"`
}

type pageSeoRequest struct {
	MetaTitle       *string `json:"metaTitle"`
	MetaDescription *string `json:"metaDescription"`
	CanonicalURL    *string `json:"canonicalUrl"`
	OgTitle         *string `json:"ogTitle"`
	OgDescription   *string `json:"ogDescription"`
	OgImageURL      *string `json:"ogImageUrl"`
	Robots          *string `json:"robots"`
}

type seoDefaultsRequest struct {
	SiteName               *string `json:"siteName"`
	TitleTemplate          *string `json:"titleTemplate"`
	DefaultMetaDescription *string `json:"defaultMetaDescription"`
	DefaultOgImageURL      *string `json:"defaultOgImageUrl"`
	DefaultFaviconURL      *string `json:"defaultFaviconUrl"`
}

// GetPageSeo 返回某个 slug 的合成 SEO 信息，未注册的页面返回全空字段而不是 404。
func (a *API) GetPageSeo(c *gin.Context) {
	resolved, err := a.resolver.ResolvePageSeo(c.Request.Context(), c.Param("slug"))
	if err != nil {
		fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, resolved)
}

// GetSeoByPageName accepts a slug or a route path.
func (a *API) GetSeoByPageName(c *gin.Context) {
	resolved, err := a.resolver.ResolveByPageName(c.Request.Context(), c.Param("pageName"))
	if err != nil {
		fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, resolved)
}

// GetSeoDefaults 返回站点默认 SEO 配置，未配置时返回内置默认值。
func (a *API) GetSeoDefaults(c *gin.Context) {
	settings, err := a.seoSettings.GetDefaults(c.Request.Context())
	if err != nil {
		fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateSeoDefaults merges the posted fields into the site defaults.
func (a *API) UpdateSeoDefaults(c *gin.Context) {
	var req seoDefaultsRequest
	if !bindJSON(c, &req, "invalid request body") {
		return
	}

	settings, err := a.seoSettings.UpsertDefaults(c.Request.Context(), service.SeoSettingsInput{
		SiteName:               req.SiteName,
		TitleTemplate:          req.TitleTemplate,
		DefaultMetaDescription: req.DefaultMetaDescription,
		DefaultOgImageURL:      req.DefaultOgImageURL,
		DefaultFaviconURL:      req.DefaultFaviconURL,
	})
	if err != nil {
		fail(c, err, "")
		return
	}
	respondData(c, http.StatusOK, settings)
}

// ListPages 返回全部注册页面。
func (a *API) ListPages(c *gin.Context) {
	pages, err := a.pages.List(c.Request.Context())
	if err != nil {
		fail(c, err, "")
		return
	}
	respondData(c, http.StatusOK, pages)
}

// GetPage returns one registered page.
func (a *API) GetPage(c *gin.Context) {
	page, err := a.pages.FindBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		fail(c, err, "page not found")
		return
	}
	respondData(c, http.StatusOK, page)
}

// UpsertPage creates or updates a page registration.
func (a *API) UpsertPage(c *gin.Context) {
	var req pageRequest
	if !bindJSON(c, &req, "invalid request body") {
		return
	}

	page, err := a.pages.Upsert(c.Request.Context(), c.Param("slug"), service.PageInput{
		RoutePath:       req.RoutePath,
		PageType:        req.PageType,
		IsIndexable:     req.IsIndexable,
		ChangeFrequency: req.ChangeFrequency,
		Priority:        req.Priority,
	})
	if err != nil {
		fail(c, err, "")
		return
	}

	a.logger.WithField("slug", page.Slug).Info("page saved")
	respondData(c, http.StatusOK, page)
}

// GetPageSeoOverride returns the raw override row, null when none is stored.
func (a *API) GetPageSeoOverride(c *gin.Context) {
	ctx := c.Request.Context()
	page, err := a.pages.FindBySlug(ctx, c.Param("slug"))
	if err != nil {
		fail(c, err, "page not found")
		return
	}

	override, err := a.pageSeo.GetByPageID(ctx, page.ID)
	if err != nil {
		fail(c, err, "")
		return
	}
	respondData(c, http.StatusOK, override)
}

// UpsertPageSeoOverride replaces the override row for a page.
func (a *API) UpsertPageSeoOverride(c *gin.Context) {
	ctx := c.Request.Context()
	page, err := a.pages.FindBySlug(ctx, c.Param("slug"))
	if err != nil {
		fail(c, err, "page not found")
		return
	}

	var req pageSeoRequest
	if !bindJSON(c, &req, "invalid request body") {
		return
	}

	override, err := a.pageSeo.UpsertByPageID(ctx, page.ID, service.PageSeoInput{
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		CanonicalURL:    req.CanonicalURL,
		OgTitle:         req.OgTitle,
		OgDescription:   req.OgDescription,
		OgImageURL:      req.OgImageURL,
		Robots:          req.Robots,
	})
	if err != nil {
		fail(c, err, "page not found")
		return
	}

	a.logger.WithField("slug", page.Slug).Info("page seo saved")
	respondData(c, http.StatusOK, override)
}
