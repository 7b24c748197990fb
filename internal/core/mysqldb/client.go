// Package mysqldb 负责建立到权威关系库的 gorm 连接池。
package mysqldb

import (
	"fmt"
	"time"

	"github.com/jobse/job_search/config"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDB 按配置打开 MySQL 连接池并做一次连通性检查。
func NewDB(cfg config.MySQLConfig, logger *zap.Logger) (*gorm.DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("mysql DSN 未在配置中指定")
	}

	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	}
	if cfg.LogSlowQueries {
		gormCfg.Logger = gormlogger.Default.LogMode(gormlogger.Warn)
	}

	db, err := gorm.Open(mysql.Open(cfg.DSN), gormCfg)
	if err != nil {
		logger.Error("打开 MySQL 连接失败", zap.Error(err))
		return nil, fmt.Errorf("打开 MySQL 连接失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层 *sql.DB 失败: %w", err)
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 20
	}
	maxIdle := cfg.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = 5
	}
	lifetime := cfg.ConnMaxLifetime
	if lifetime <= 0 {
		lifetime = time.Hour
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(lifetime)

	if err := sqlDB.Ping(); err != nil {
		logger.Error("Ping MySQL 失败", zap.Error(err))
		return nil, fmt.Errorf("ping MySQL 失败: %w", err)
	}

	logger.Info("MySQL 连接池初始化成功",
		zap.Int("max_open_conns", maxOpen),
		zap.Int("max_idle_conns", maxIdle),
		zap.Duration("conn_max_lifetime", lifetime),
	)
	return db, nil
}
