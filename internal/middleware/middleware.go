// Package middleware 提供请求日志与请求超时两个通用 Gin 中间件。
package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLogger 记录每个请求的方法、路径、状态码与耗时。
// 5xx 记 Error，4xx 记 Warn，其余记 Info。
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			logger.Error("请求处理失败", fields...)
		case c.Writer.Status() >= http.StatusBadRequest:
			logger.Warn("请求被拒绝", fields...)
		default:
			logger.Info("请求处理完成", fields...)
		}
	}
}

// RequestTimeout 为每个请求的上下文附加超时。
// 下游的 Elasticsearch / MySQL 调用都接收该上下文，超时后自动中断。
func RequestTimeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
