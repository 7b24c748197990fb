package config

import "time"

// SyncConfig 包含后台同步协调器（MySQL -> Elasticsearch）的全部配置项。
type SyncConfig struct {
	InitialDelay      time.Duration `mapstructure:"initialDelay" default:"10s"`      // 服务启动后第一次同步前的等待时间。
	Interval          time.Duration `mapstructure:"interval" default:"30s"`          // 两次同步周期之间的间隔。
	CompanyBatchSize  int           `mapstructure:"companyBatchSize" default:"500"`  // 单个周期内扫描的未同步公司行数上限。
	PositionBatchSize int           `mapstructure:"positionBatchSize" default:"1000"` // 单个周期内扫描的未同步职位行数上限。
	MaxRetryAttempts  uint64        `mapstructure:"maxRetryAttempts" default:"3"`    // 单行文档写入失败时的最大重试次数。
}
