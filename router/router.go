// FileName: router/router.go
package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jobse/job_search/config"
	"github.com/jobse/job_search/constants"
	"github.com/jobse/job_search/internal/api"
	"github.com/jobse/job_search/internal/middleware"
	otelgin "go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// SetupRouter 初始化并配置 Gin 引擎，注册所有中间件和业务路由。
//
// 中间件顺序：OTel 追踪最先（让后续中间件都落在 span 内），
// 然后是请求日志与请求超时；业务路由统一挂在 /api/v1 下，
// 职位与公司各占一个子分组。
func SetupRouter(
	logger *zap.Logger,
	cfg *config.JobSearchConfig,
	positionHandler *api.PositionHandler,
	companyHandler *api.CompanyHandler,
) *gin.Engine {
	logger.Info("开始设置 Gin 路由...")

	// gin.Default() 自带 Recovery 中间件兜底 panic。
	router := gin.Default()

	if cfg.TracerConfig.Enabled {
		router.Use(otelgin.Middleware(constants.ServiceName))
		logger.Info("OpenTelemetry 中间件已注册", zap.String("service_name", constants.ServiceName))
	}

	router.Use(middleware.RequestLogger(logger))

	requestTimeout := cfg.Server.RequestTimeout
	if requestTimeout <= 0 {
		logger.Warn("配置中的请求超时无效或未设置，使用默认值 10 秒",
			zap.Duration("configured", cfg.Server.RequestTimeout))
		requestTimeout = 10 * time.Second
	}
	router.Use(middleware.RequestTimeout(requestTimeout))
	logger.Info("请求超时中间件已注册", zap.Duration("timeout", requestTimeout))

	apiV1 := router.Group("/api/v1")

	if positionHandler == nil || companyHandler == nil {
		logger.Error("API Handler 实例为 nil，路由无法注册")
		panic("致命错误：API Handler 未初始化，无法注册路由")
	}
	positionHandler.RegisterRoutes(apiV1.Group("/positions"))
	companyHandler.RegisterRoutes(apiV1.Group("/companies"))

	// 健康检查挂在分组外，负载均衡探针不走业务前缀。
	router.GET("/_health", positionHandler.HealthCheck)

	logger.Info("Gin 路由设置已全部完成")
	return router
}
