// Package logger 负责构建整个服务共享的 Zap 日志器。
package logger

import (
	"fmt"

	"github.com/jobse/job_search/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewZapLogger 根据配置构建一个 *zap.Logger。
// 生产模式输出 JSON，开发模式输出彩色控制台格式；级别非法时返回错误而不是悄悄降级。
func NewZapLogger(cfg config.ZapConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("解析日志级别 '%s' 失败: %w", cfg.Level, err)
	}

	var zapCfg zap.Config
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	zapLogger, err := zapCfg.Build(zap.AddCaller())
	if err != nil {
		return nil, fmt.Errorf("构建 Zap 日志器失败: %w", err)
	}
	return zapLogger, nil
}
