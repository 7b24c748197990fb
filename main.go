package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jobse/job_search/config"
	"github.com/jobse/job_search/constants"
	"github.com/jobse/job_search/internal/api"
	coreES "github.com/jobse/job_search/internal/core/es"
	"github.com/jobse/job_search/internal/core/logger"
	"github.com/jobse/job_search/internal/core/mysqldb"
	"github.com/jobse/job_search/internal/core/tracing"
	"github.com/jobse/job_search/internal/repositories"
	"github.com/jobse/job_search/internal/service"
	"github.com/jobse/job_search/router"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

func main() {
	// --- 0. 配置和基础设置 ---
	var configFile string
	flag.StringVar(&configFile, "config", "config/config.development.yaml", "指定配置文件的路径")
	flag.Parse()

	var cfg config.JobSearchConfig
	if err := config.LoadConfig(configFile, &cfg); err != nil {
		log.Fatalf("致命错误: 加载配置文件 '%s' 失败: %v", configFile, err)
	}

	zapLogger, loggerErr := logger.NewZapLogger(cfg.ZapConfig)
	if loggerErr != nil {
		log.Fatalf("致命错误: 初始化 ZapLogger 失败: %v", loggerErr)
	}
	defer func() {
		if err := zapLogger.Sync(); err != nil {
			log.Printf("警告: ZapLogger Sync 操作失败: %v\n", err)
		}
	}()
	zapLogger.Info("Logger 初始化成功")

	// --- 1. HTTP Transport 与分布式追踪 ---
	baseHTTPTransport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	var esHTTPTransport http.RoundTripper = baseHTTPTransport

	if cfg.TracerConfig.Enabled {
		tracerShutdown, err := tracing.InitTracerProvider(
			context.Background(),
			constants.ServiceName,
			constants.ServiceVersion,
			cfg.TracerConfig.CollectorURL,
		)
		if err != nil {
			zapLogger.Fatal("初始化分布式追踪 TracerProvider 失败", zap.Error(err))
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			zapLogger.Info("正在关闭分布式追踪 TracerProvider...")
			if err := tracerShutdown(shutdownCtx); err != nil {
				zapLogger.Error("关闭分布式追踪 TracerProvider 时发生错误", zap.Error(err))
			}
		}()
		// 出站 ES 请求也纳入追踪。
		esHTTPTransport = otelhttp.NewTransport(baseHTTPTransport)
		zapLogger.Info("分布式追踪功能已初始化")
	} else {
		zapLogger.Info("分布式追踪功能已禁用 (根据配置)")
	}

	// --- 2. 核心组件初始化 ---
	esClient, err := coreES.NewESClient(cfg.ElasticsearchConfig, zapLogger, esHTTPTransport)
	if err != nil {
		zapLogger.Fatal("创建 Elasticsearch 客户端失败", zap.Error(err))
	}
	zapLogger.Info("Elasticsearch 客户端初始化成功")

	db, err := mysqldb.NewDB(cfg.MySQLConfig, zapLogger)
	if err != nil {
		zapLogger.Fatal("创建 MySQL 连接失败", zap.Error(err))
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			zapLogger.Info("正在关闭 MySQL 连接池...")
			if err := sqlDB.Close(); err != nil {
				zapLogger.Error("关闭 MySQL 连接池时发生错误", zap.Error(err))
			}
		}
	}()

	// --- 3. Repositories ---
	positionIndexName := cfg.ElasticsearchConfig.PositionIndex.Name
	companyIndexName := cfg.ElasticsearchConfig.CompanyIndex.Name
	if positionIndexName == "" || companyIndexName == "" {
		zapLogger.Fatal("职位或公司索引名称未在配置中指定")
	}
	positionRepo := repositories.NewPositionRepository(esClient, zapLogger, positionIndexName)
	companyRepo := repositories.NewCompanyRepository(esClient, zapLogger, companyIndexName)
	recordRepo := repositories.NewRecordRepository(db, zapLogger)
	hotTagRepo := repositories.NewHotTagRepository(db, zapLogger)
	zapLogger.Info("Repositories 初始化成功",
		zap.String("position_index", positionIndexName),
		zap.String("company_index", companyIndexName),
	)

	// --- 4. 业务服务层 ---
	tagSvc := service.NewTagService(hotTagRepo, zapLogger)
	positionSvc := service.NewPositionService(positionRepo, companyRepo, tagSvc, zapLogger)
	companySvc := service.NewCompanyService(companyRepo, positionRepo, zapLogger)
	syncSvc := service.NewSyncService(recordRepo, positionRepo, companyRepo, cfg.SyncConfig, zapLogger)
	zapLogger.Info("业务服务层初始化成功")

	// --- 5. API Handler 与路由 ---
	positionHandler := api.NewPositionHandler(positionSvc, tagSvc, zapLogger)
	companyHandler := api.NewCompanyHandler(companySvc, positionSvc, zapLogger)
	ginRouter := router.SetupRouter(zapLogger, &cfg, positionHandler, companyHandler)

	// --- 6. 服务启动与优雅关闭 ---
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	syncSvc.Start(ctx)
	defer func() {
		if err := syncSvc.Close(); err != nil {
			zapLogger.Error("关闭同步协调器时发生错误", zap.Error(err))
		}
	}()

	serverAddr := cfg.Server.ListenAddr
	if serverAddr == "" {
		serverAddr = ":" + cfg.Server.Port
	} else if !strings.Contains(serverAddr, ":") {
		serverAddr = serverAddr + ":" + cfg.Server.Port
	}

	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: ginRouter,
	}

	go func() {
		zapLogger.Info("HTTP API 服务器正在启动...", zap.String("listen_address", serverAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Error("HTTP API 服务器启动失败或意外停止", zap.Error(err))
			cancel()
		}
	}()

	quitSignal := make(chan os.Signal, 1)
	signal.Notify(quitSignal, syscall.SIGINT, syscall.SIGTERM)
	zapLogger.Info("服务已成功启动，正在监听中断或终止信号...")

	receivedSignal := <-quitSignal
	zapLogger.Info("接收到关闭信号，开始优雅关闭", zap.String("signal", receivedSignal.String()))

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("关闭 HTTP API 服务器时发生错误", zap.Error(err))
	} else {
		zapLogger.Info("HTTP API 服务器已成功关闭")
	}

	zapLogger.Info("服务所有组件已完成关闭流程，程序即将退出")
}
