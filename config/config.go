package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// JobSearchConfig 是整个服务的根配置结构，由 YAML 配置文件反序列化而来。
type JobSearchConfig struct {
	Server              ServerConfig `mapstructure:"server" json:"server" yaml:"server"`
	ZapConfig           ZapConfig    `mapstructure:"zapConfig" json:"zapConfig" yaml:"zapConfig"`
	TracerConfig        TracerConfig `mapstructure:"tracerConfig" json:"tracerConfig" yaml:"tracerConfig"`
	ElasticsearchConfig ESConfig     `mapstructure:"elasticsearchConfig" json:"elasticsearchConfig" yaml:"elasticsearchConfig"`
	MySQLConfig         MySQLConfig  `mapstructure:"mysqlConfig" json:"mysqlConfig" yaml:"mysqlConfig"`
	SyncConfig          SyncConfig   `mapstructure:"syncConfig" json:"syncConfig" yaml:"syncConfig"`
}

// LoadConfig 从指定路径加载 YAML 配置文件并反序列化到 cfg。
// 环境变量可以覆盖文件中的同名配置项（例如 SERVER_PORT 覆盖 server.port），
// 便于在容器环境中注入敏感信息（如 ES 密码、MySQL DSN）。
func LoadConfig(path string, cfg *JobSearchConfig) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("读取配置文件 '%s' 失败: %w", path, err)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("解析配置文件 '%s' 失败: %w", path, err)
	}
	return nil
}
