package handler

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/realwork/site/internal/db"
	"github.com/realwork/site/internal/service"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML(), html.WithUnsafe()),
	)
	sanitizer = buildContentSanitizer()
)

type blogPostRequest struct {
	Slug          string `json:"slug"`
	Title         string `json:"title"`
	Excerpt       string `json:"excerpt"`
	Content       string `json:"content"`
	CoverImageURL string `json:"coverImageUrl"`
	Author        string `json:"author"`
	Status        string `json:"status"`
}

func (r blogPostRequest) input() service.BlogPostInput {
	return service.BlogPostInput{
		Slug:          r.Slug,
		Title:         r.Title,
		Excerpt:       r.Excerpt,
		Content:       r.Content,
		CoverImageURL: r.CoverImageURL,
		Author:        r.Author,
		Status:        r.Status,
	}
}

type blogPostSummary struct {
	Slug          string     `json:"slug"`
	Title         string     `json:"title"`
	Excerpt       string     `json:"excerpt"`
	CoverImageURL string     `json:"coverImageUrl"`
	Author        string     `json:"author"`
	PublishedAt   *time.Time `json:"publishedAt"`
}

type blogPostDetail struct {
	blogPostSummary
	ContentHTML string `json:"contentHtml"`
}

func summarizePost(post db.BlogPost) blogPostSummary {
	return blogPostSummary{
		Slug:          post.Slug,
		Title:         post.Title,
		Excerpt:       post.Excerpt,
		CoverImageURL: post.CoverImageURL,
		Author:        post.Author,
		PublishedAt:   post.PublishedAt,
	}
}

// ListBlogPosts 分页返回已发布文章。
func (a *API) ListBlogPosts(c *gin.Context) {
	result, err := a.posts.List(c.Request.Context(), service.BlogFilter{
		Status:  db.PostStatusPublished,
		Page:    parsePositiveInt(c.Query("page"), 1),
		PerPage: parsePositiveInt(c.Query("perPage"), 10),
	})
	if err != nil {
		fail(c, err, "")
		return
	}

	items := make([]blogPostSummary, 0, len(result.Posts))
	for _, post := range result.Posts {
		items = append(items, summarizePost(post))
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       items,
		"page":       result.Page,
		"perPage":    result.PerPage,
		"total":      result.Total,
		"totalPages": result.TotalPages,
	})
}

// GetBlogPost returns a published post with rendered, sanitized HTML.
func (a *API) GetBlogPost(c *gin.Context) {
	post, err := a.posts.GetPublishedBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		fail(c, err, "post not found")
		return
	}

	rendered, err := renderMarkdown(post.Content)
	if err != nil {
		fail(c, err, "")
		return
	}

	respondData(c, http.StatusOK, blogPostDetail{
		blogPostSummary: summarizePost(*post),
		ContentHTML:     rendered,
	})
}

// AdminListPosts 返回包含草稿在内的文章列表。
func (a *API) AdminListPosts(c *gin.Context) {
	result, err := a.posts.List(c.Request.Context(), service.BlogFilter{
		Status:  c.Query("status"),
		Page:    parsePositiveInt(c.Query("page"), 1),
		PerPage: parsePositiveInt(c.Query("perPage"), 20),
	})
	if err != nil {
		fail(c, err, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       result.Posts,
		"page":       result.Page,
		"perPage":    result.PerPage,
		"total":      result.Total,
		"totalPages": result.TotalPages,
	})
}

// CreatePost 新建文章。
func (a *API) CreatePost(c *gin.Context) {
	var req blogPostRequest
	if !bindJSON(c, &req, "invalid request body") {
		return
	}

	post, err := a.posts.Create(c.Request.Context(), req.input())
	if err != nil {
		fail(c, err, "")
		return
	}
	respondData(c, http.StatusCreated, post)
}

// UpdatePost 更新文章。
func (a *API) UpdatePost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req blogPostRequest
	if !bindJSON(c, &req, "invalid request body") {
		return
	}

	post, err := a.posts.Update(c.Request.Context(), id, req.input())
	if err != nil {
		fail(c, err, "post not found")
		return
	}
	respondData(c, http.StatusOK, post)
}

// DeletePost 删除文章。
func (a *API) DeletePost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.posts.Delete(c.Request.Context(), id); err != nil {
		fail(c, err, "post not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func renderMarkdown(content string) (string, error) {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(expandVideoLinks(content)), &buf); err != nil {
		return "", err
	}
	return string(sanitizer.SanitizeBytes(buf.Bytes())), nil
}
