package config

import "time"

// MySQLConfig 定义了权威关系库（MySQL）的连接配置。
// 同步协调器从这里读取待上传的公司/职位记录，热门标签也存储于此。
type MySQLConfig struct {
	DSN             string        `mapstructure:"dsn" json:"dsn" yaml:"dsn"`                                              // gorm/mysql 格式的连接字符串
	MaxOpenConns    int           `mapstructure:"maxOpenConns" json:"maxOpenConns" yaml:"maxOpenConns"`                   // 连接池最大打开连接数
	MaxIdleConns    int           `mapstructure:"maxIdleConns" json:"maxIdleConns" yaml:"maxIdleConns"`                   // 连接池最大空闲连接数
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime" json:"connMaxLifetime" yaml:"connMaxLifetime"`          // 单个连接的最大存活时间
	LogSlowQueries  bool          `mapstructure:"logSlowQueries" json:"logSlowQueries" yaml:"logSlowQueries" default:"true"` // 是否记录慢查询
}
