package handler

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/realwork/site/internal/db"
	"github.com/realwork/site/internal/service"
)

const sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// Sitemap 输出所有可索引页面与已发布文章。
func (a *API) Sitemap(c *gin.Context) {
	ctx := c.Request.Context()
	pages, err := a.pages.ListIndexable(ctx)
	if err != nil {
		fail(c, err, "")
		return
	}
	posts, err := a.posts.ListPublished(ctx)
	if err != nil {
		fail(c, err, "")
		return
	}

	payload, err := buildSitemap(a.siteBaseURL, pages, posts)
	if err != nil {
		fail(c, err, "")
		return
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", payload)
}

// RobotsTxt 禁止抓取后台路径并指向 sitemap。
func (a *API) RobotsTxt(c *gin.Context) {
	body := fmt.Sprintf("User-agent: *\nAllow: /\nDisallow: /admin\nDisallow: /api/admin\n\nSitemap: %s/sitemap.xml\n", a.siteBaseURL)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(body))
}

func buildSitemap(baseURL string, pages []db.Page, posts []db.BlogPost) ([]byte, error) {
	urls := make([]sitemapURL, 0, len(pages)+len(posts))
	for i := range pages {
		page := &pages[i]
		if !service.EffectiveIndexable(page) {
			continue
		}
		urls = append(urls, sitemapURL{
			Loc:        service.CanonicalURL(baseURL, page.RoutePath),
			LastMod:    formatLastMod(page.LastModified),
			ChangeFreq: string(page.ChangeFrequency),
			Priority:   strconv.FormatFloat(page.Priority, 'f', -1, 64),
		})
	}
	for _, post := range posts {
		urls = append(urls, sitemapURL{
			Loc:        service.CanonicalURL(baseURL, "/blog/"+post.Slug),
			LastMod:    formatLastMod(post.UpdatedAt),
			ChangeFreq: string(db.ChangeMonthly),
			Priority:   "0.6",
		})
	}

	out, err := xml.MarshalIndent(sitemapURLSet{XMLNS: sitemapNamespace, URLs: urls}, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}

func formatLastMod(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}
