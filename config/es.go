package config

// IndexSpecificConfig 定义了单个 Elasticsearch 索引的特定配置，如分片和副本数。
// 公司索引和职位索引各自持有一份这样的配置。
type IndexSpecificConfig struct {
	Name             string `mapstructure:"name" json:"name" yaml:"name"`                                     // 索引的名称
	NumberOfShards   int    `mapstructure:"numberOfShards" json:"numberOfShards" yaml:"numberOfShards"`       // 该索引的主分片数量
	NumberOfReplicas int    `mapstructure:"numberOfReplicas" json:"numberOfReplicas" yaml:"numberOfReplicas"` // 该索引的每个主分片的副本数量
}

// ESConfig 定义了 Elasticsearch 的连接和索引配置。
type ESConfig struct {
	Addresses []string `mapstructure:"addresses" json:"addresses" yaml:"addresses"`
	Username  string   `mapstructure:"username" json:"username" yaml:"username"`
	Password  string   `mapstructure:"password" json:"password" yaml:"password"`

	// 公司索引的配置
	CompanyIndex IndexSpecificConfig `mapstructure:"companyIndex" json:"companyIndex" yaml:"companyIndex"`

	// 职位索引的配置
	PositionIndex IndexSpecificConfig `mapstructure:"positionIndex" json:"positionIndex" yaml:"positionIndex"`
}
