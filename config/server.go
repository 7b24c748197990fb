package config

import "time"

// ServerConfig 定义 HTTP 服务器的监听与超时配置。
type ServerConfig struct {
	ListenAddr     string        `mapstructure:"listenAddr" json:"listenAddr" yaml:"listenAddr"`             // 监听地址，可为空（只用端口）
	Port           string        `mapstructure:"port" json:"port" yaml:"port"`                               // 监听端口
	RequestTimeout time.Duration `mapstructure:"requestTimeout" json:"requestTimeout" yaml:"requestTimeout"` // 单个请求的处理超时
}

// ZapConfig 定义 Zap 日志器的行为。
type ZapConfig struct {
	Level       string `mapstructure:"level" json:"level" yaml:"level" default:"info"` // 日志级别: debug/info/warn/error
	Development bool   `mapstructure:"development" json:"development" yaml:"development"`
}

// TracerConfig 定义分布式追踪的开关与导出端点。
type TracerConfig struct {
	Enabled      bool   `mapstructure:"enabled" json:"enabled" yaml:"enabled"`
	CollectorURL string `mapstructure:"collectorUrl" json:"collectorUrl" yaml:"collectorUrl"` // OTLP gRPC collector 地址
}
