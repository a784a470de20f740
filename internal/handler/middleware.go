package handler

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
)

const (
	requestIDHeader   = "X-Request-ID"
	requestIDKey      = "request_id"
	rateLimitMessage  = "too many requests, please try again later"
	internalErrorText = "internal server error"
)

type requestIDContextKey struct{}

// RequestIDFromContext returns the id assigned by RequestID, if any.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDContextKey{}).(string); ok {
		return id
	}
	return ""
}

// RequestID 为每个请求分配唯一 ID，并在配置了 Sentry 时挂载独立的 hub。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(requestIDHeader)
		if _, err := uuid.Parse(reqID); err != nil {
			reqID = uuid.NewString()
		}

		ctx := context.WithValue(c.Request.Context(), requestIDContextKey{}, reqID)
		if sentry.CurrentHub().Client() != nil {
			hub := sentry.CurrentHub().Clone()
			hub.Scope().SetTag(requestIDKey, reqID)
			hub.Scope().SetRequest(c.Request)
			ctx = sentry.SetHubOnContext(ctx, hub)
		}

		c.Request = c.Request.WithContext(ctx)
		c.Set(requestIDKey, reqID)
		c.Header(requestIDHeader, reqID)
		c.Next()
	}
}

// RequestLogger writes one structured line per request.
func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := logrus.Fields{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status":      status,
			"duration_ms": float64(time.Since(start).Microseconds()) / 1000,
			"client_ip":   c.ClientIP(),
		}
		if reqID := RequestIDFromContext(c.Request.Context()); reqID != "" {
			fields[requestIDKey] = reqID
		}

		entry := logger.WithFields(fields)
		if status >= http.StatusInternalServerError {
			entry.Error("request failed")
		} else {
			entry.Info("request completed")
		}
	}
}

// ErrorHandler 统一处理 handler 通过 c.Error 上报的错误以及 panic：
// 记录日志、上报 Sentry，并返回通用 500。开发环境附带错误堆栈。
func ErrorHandler(logger *logrus.Logger, development bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				var err error
				switch v := rec.(type) {
				case error:
					err = eris.Wrap(v, "panic recovered")
				default:
					err = eris.Errorf("panic recovered: %v", v)
				}
				reportError(c, logger, err, development)
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		reportError(c, logger, c.Errors.Last().Err, development)
	}
}

func reportError(c *gin.Context, logger *logrus.Logger, err error, development bool) {
	fields := logrus.Fields{
		"method": c.Request.Method,
		"path":   c.Request.URL.Path,
		"stack":  eris.ToString(err, true),
	}
	if reqID := RequestIDFromContext(c.Request.Context()); reqID != "" {
		fields[requestIDKey] = reqID
	}
	logger.WithError(err).WithFields(fields).Error("unhandled error")

	if hub := sentry.GetHubFromContext(c.Request.Context()); hub != nil {
		hub.CaptureException(err)
	}

	if c.Writer.Written() {
		c.Abort()
		return
	}

	body := gin.H{"success": false, "error": internalErrorText}
	if development {
		body["detail"] = eris.ToJSON(err, true)
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, body)
}

// NoIndex 为后台响应添加 X-Robots-Tag，防止被搜索引擎收录。
func NoIndex() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Robots-Tag", "noindex, nofollow")
		c.Next()
	}
}

// LeadRateLimit 按客户端 IP 限制线索提交频率。限流器故障时放行请求。
func (a *API) LeadRateLimit() gin.HandlerFunc {
	return a.rateLimit("lead")
}

// LoginRateLimit limits admin login attempts per client IP with the same
// limiter, in a separate key space from lead submissions.
func (a *API) LoginRateLimit() gin.HandlerFunc {
	return a.rateLimit("login")
}

func (a *API) rateLimit(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if a.leadLimiter == nil {
			c.Next()
			return
		}

		ip := c.ClientIP()
		decision, err := a.leadLimiter.Allow(c.Request.Context(), scope+":"+ip)
		if err != nil {
			a.logger.WithError(err).WithFields(logrus.Fields{
				"client_ip": ip,
				"scope":     scope,
			}).Warn("rate limiter unavailable")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		if decision.Allowed {
			c.Next()
			return
		}

		seconds := int(math.Ceil(decision.RetryAfter.Seconds()))
		if seconds < 1 {
			seconds = 1
		}
		a.logger.WithFields(logrus.Fields{
			"client_ip": ip,
			"scope":     scope,
			"path":      c.Request.URL.Path,
		}).Warn("request rate limited")

		c.Header("Retry-After", strconv.Itoa(seconds))
		respondError(c, http.StatusTooManyRequests, rateLimitMessage)
		c.Abort()
	}
}
