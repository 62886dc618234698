package middleware

import (
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"mujtama/internal/pkg/ctxutil"
)

// 查询参数中不落日志的字段（邮箱验证、密码重置 Token）
var redactedParams = []string{"token", "password"}

// Logger 访问日志；/health 只在失败时记录
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		if path == "/health" && status < 400 {
			return
		}

		var event *zerolog.Event
		switch {
		case status >= 500:
			event = log.Error()
		case status >= 400:
			event = log.Warn()
		default:
			event = log.Info()
		}

		event = event.
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", redactQuery(c.Request.URL.Query())).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Str("request_id", c.GetString("request_id")).
			Int("body_size", c.Writer.Size())

		if action := c.Query("action"); action != "" {
			event = event.Str("action", action)
		}
		if userID, ok := ctxutil.GetUserID(c.Request.Context()); ok {
			event = event.Str("user_id", userID)
		}
		if len(c.Errors) > 0 {
			event = event.Str("errors", c.Errors.String())
		}
		event.Msg("HTTP request")
	}
}

func redactQuery(q url.Values) string {
	if len(q) == 0 {
		return ""
	}
	for _, key := range redactedParams {
		if q.Has(key) {
			q.Set(key, "***")
		}
	}
	return q.Encode()
}
