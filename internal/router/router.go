package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/realwork/site/internal/handler"
	"github.com/realwork/site/internal/observability"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const sessionName = "realwork_session"

// Options 描述路由层需要的外部配置。
type Options struct {
	SessionSecret  string
	CORSOrigins    []string
	// TrustedProxies 为空时不信任任何转发头，客户端 IP 取自连接地址。
	TrustedProxies []string
	Tracing        bool
}

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, opts Options) *gin.Engine {
	r := gin.New()
	if err := r.SetTrustedProxies(opts.TrustedProxies); err != nil {
		api.Logger().WithError(err).Warn("invalid trusted proxies, forwarded headers ignored")
		_ = r.SetTrustedProxies(nil)
	}

	if opts.Tracing {
		r.Use(otelgin.Middleware(observability.ServiceName))
	}
	r.Use(
		handler.RequestID(),
		handler.RequestLogger(api.Logger()),
		gzip.Gzip(gzip.DefaultCompression),
		handler.ErrorHandler(api.Logger(), api.Development()),
	)
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     opts.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type", "X-Requested-With", "X-Request-ID"},
			ExposeHeaders:    []string{"X-Request-ID", "Retry-After"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// 配置会话中间件
	store := cookie.NewStore([]byte(opts.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int((7 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		Secure:   !api.Development(),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))

	r.GET("/healthz", api.HealthCheck)
	r.GET("/robots.txt", api.RobotsTxt)
	r.GET("/sitemap.xml", api.Sitemap)

	public := r.Group("/api/public")
	{
		public.GET("/pages/:slug/seo", api.GetPageSeo)
		public.GET("/seo/defaults", api.GetSeoDefaults)
		public.GET("/seo/:pageName", api.GetSeoByPageName)
	}

	content := r.Group("/api/content")
	{
		content.GET("/:pageName", api.ListPageContent)
		content.GET("/:pageName/:sectionKey", api.GetSectionContent)
		content.POST("", handler.AuthRequired(), api.UpsertSectionContent)
	}

	site := r.Group("/api")
	{
		site.GET("/divisions", api.ListDivisions)
		site.GET("/divisions/:slug", api.GetDivision)
		site.GET("/blog", api.ListBlogPosts)
		site.GET("/blog/:slug", api.GetBlogPost)
		site.GET("/careers", api.ListJobs)
		site.GET("/careers/:slug", api.GetJob)
		site.POST("/leads", api.LeadRateLimit(), api.SubmitLead)
	}

	// 后台管理路由
	admin := r.Group("/api/admin", handler.NoIndex())
	{
		admin.POST("/login", api.LoginRateLimit(), api.Login)
		admin.POST("/logout", api.Logout)
		admin.GET("/session", api.Session)

		// 需要认证的后台路由
		auth := admin.Group("")
		auth.Use(handler.AuthRequired())
		{
			auth.GET("/pages", api.ListPages)
			auth.GET("/pages/:slug", api.GetPage)
			auth.PUT("/pages/:slug", api.UpsertPage)
			auth.GET("/pages/:slug/seo", api.GetPageSeoOverride)
			auth.PUT("/pages/:slug/seo", api.UpsertPageSeoOverride)

			auth.GET("/seo/defaults", api.GetSeoDefaults)
			auth.PUT("/seo/defaults", api.UpdateSeoDefaults)

			auth.GET("/content", api.AdminListContent)
			auth.DELETE("/content/:pageName/:sectionKey", api.DeleteSectionContent)

			auth.GET("/posts", api.AdminListPosts)
			auth.POST("/posts", api.CreatePost)
			auth.PUT("/posts/:id", api.UpdatePost)
			auth.DELETE("/posts/:id", api.DeletePost)

			auth.GET("/divisions", api.AdminListDivisions)
			auth.POST("/divisions", api.CreateDivision)
			auth.PUT("/divisions/:id", api.UpdateDivision)
			auth.DELETE("/divisions/:id", api.DeleteDivision)

			auth.GET("/jobs", api.AdminListJobs)
			auth.POST("/jobs", api.CreateJob)
			auth.PUT("/jobs/:id", api.UpdateJob)
			auth.DELETE("/jobs/:id", api.DeleteJob)

			auth.GET("/leads", api.ListLeads)
		}
	}

	return r
}
