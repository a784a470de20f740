package handler

import (
	"strings"

	"github.com/realwork/site/internal/ratelimit"
	"github.com/realwork/site/internal/service"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configures an API instance.
type Options struct {
	SiteBaseURL   string
	AdminUsername string
	AdminPassword string
	Development   bool
	Logger        *logrus.Logger
	LeadLimiter   ratelimit.Limiter
}

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db          *gorm.DB
	pages       *service.PageService
	pageSeo     *service.PageSeoService
	seoSettings *service.SeoSettingsService
	sections    *service.SectionService
	resolver    *service.SeoResolver
	posts       *service.BlogService
	divisions   *service.DivisionService
	jobs        *service.JobService
	leads       *service.LeadService

	logger      *logrus.Logger
	leadLimiter ratelimit.Limiter
	siteBaseURL string
	development bool

	adminUsername     string
	adminPasswordHash []byte
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, opts Options) (*API, error) {
	pages := service.NewPageService(gdb)
	pageSeo := service.NewPageSeoService(gdb)
	seoSettings := service.NewSeoSettingsService(gdb)
	baseURL := strings.TrimRight(strings.TrimSpace(opts.SiteBaseURL), "/")

	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	api := &API{
		db:          gdb,
		pages:       pages,
		pageSeo:     pageSeo,
		seoSettings: seoSettings,
		sections:    service.NewSectionService(gdb),
		resolver:    service.NewSeoResolver(pages, pageSeo, seoSettings, baseURL),
		posts:       service.NewBlogService(gdb),
		divisions:   service.NewDivisionService(gdb),
		jobs:        service.NewJobService(gdb),
		leads:       service.NewLeadService(gdb),
		logger:      logger,
		leadLimiter: opts.LeadLimiter,
		siteBaseURL: baseURL,
		development: opts.Development,
	}

	username := strings.TrimSpace(opts.AdminUsername)
	password := strings.TrimSpace(opts.AdminPassword)
	if username != "" && password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, eris.Wrap(err, "hashing admin password")
		}
		api.adminUsername = username
		api.adminPasswordHash = hash
	}

	return api, nil
}

// Logger exposes the request logger used by middleware.
func (a *API) Logger() *logrus.Logger {
	return a.logger
}

// Development reports whether error responses may include stack traces.
func (a *API) Development() bool {
	return a.development
}
