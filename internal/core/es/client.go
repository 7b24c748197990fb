package es

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/jobse/job_search/config"
	"go.uber.org/zap"
)

// ESClient 包含初始化后的 Elasticsearch 客户端以及两个业务索引的配置。
// 它是全进程唯一的文档库连接句柄：请求处理路径与同步协调器共享同一实例，
// 生命周期由进程入口负责。
type ESClient struct {
	Client *elasticsearch.Client
	cfg    config.ESConfig
	logger *zap.Logger
}

// getCompanyIndexMapping 定义公司索引的映射和设置。
// name 可分词查询；icon_url/location/description 均不参与检索。
func getCompanyIndexMapping(shards, replicas int) string {
	return fmt.Sprintf(`{
       "settings": {
          "number_of_shards": %d,
          "number_of_replicas": %d
       },
       "mappings": {
          "properties": {
             "name": { "type": "text" },
             "tags": { "type": "keyword" },
             "icon_url": { "type": "keyword", "index": false },
             "location": { "type": "keyword", "index": false },
             "description": { "type": "keyword", "index": false }
          }
       }
    }`, shards, replicas)
}

// getPositionIndexMapping 定义职位索引的映射和设置。
// salary.amount 映射为 gte/lte 两个 double 字段，薪资过滤直接对
// salary.amount.lte 做 range 查询；description 的正文与 URL 不索引。
func getPositionIndexMapping(shards, replicas int) string {
	return fmt.Sprintf(`{
       "settings": {
          "number_of_shards": %d,
          "number_of_replicas": %d
       },
       "mappings": {
          "properties": {
             "title": { "type": "text" },
             "company_id": { "type": "keyword" },
             "update_time": { "type": "date" },
             "rating": { "type": "double" },
             "views": { "type": "long" },
             "salary": {
                "properties": {
                   "provided": { "type": "boolean" },
                   "amount": {
                      "properties": {
                         "gte": { "type": "double" },
                         "lte": { "type": "double" }
                      }
                   }
                }
             },
             "requirement": {
                "properties": {
                   "experience": { "type": "integer" },
                   "degree": { "type": "integer" },
                   "base": { "type": "keyword" }
                }
             },
             "description": {
                "properties": {
                   "url": { "type": "keyword", "index": false },
                   "description": { "type": "keyword", "index": false },
                   "tags": { "type": "keyword" }
                }
             }
          }
       }
    }`, shards, replicas)
}

// createIndexIfNotExists 检查索引是否存在，不存在则按映射创建。
func createIndexIfNotExists(
	ctx context.Context,
	esClient *elasticsearch.Client,
	indexCfg config.IndexSpecificConfig,
	mappingFunc func(shards, replicas int) string,
	logger *zap.Logger,
	indexLogicalName string,
) error {
	if indexCfg.Name == "" {
		return fmt.Errorf("%s索引名称未在配置中指定", indexLogicalName)
	}
	if indexCfg.NumberOfShards <= 0 {
		return fmt.Errorf("%s索引 '%s' 配置的分片数无效: %d，必须大于0", indexLogicalName, indexCfg.Name, indexCfg.NumberOfShards)
	}
	if indexCfg.NumberOfReplicas < 0 {
		return fmt.Errorf("%s索引 '%s' 配置的副本数无效: %d，必须大于或等于0", indexLogicalName, indexCfg.Name, indexCfg.NumberOfReplicas)
	}

	checkCtx, checkCancel := context.WithTimeout(ctx, 5*time.Second)
	defer checkCancel()

	existsRes, err := esClient.Indices.Exists(
		[]string{indexCfg.Name},
		esClient.Indices.Exists.WithContext(checkCtx),
	)
	if err != nil {
		logger.Error(fmt.Sprintf("检查%s索引是否存在时发生网络或请求错误", indexLogicalName),
			zap.String("index_name", indexCfg.Name), zap.Error(err))
		return fmt.Errorf("检查%s索引 '%s' 是否存在失败: %w", indexLogicalName, indexCfg.Name, err)
	}
	defer existsRes.Body.Close()

	switch {
	case existsRes.StatusCode == 404:
		logger.Warn(fmt.Sprintf("%s索引不存在，将尝试创建...", indexLogicalName),
			zap.String("index_name", indexCfg.Name),
			zap.Int("shards", indexCfg.NumberOfShards),
			zap.Int("replicas", indexCfg.NumberOfReplicas),
		)

		createCtx, createCancel := context.WithTimeout(ctx, 10*time.Second)
		defer createCancel()

		createReq := esapi.IndicesCreateRequest{
			Index: indexCfg.Name,
			Body:  strings.NewReader(mappingFunc(indexCfg.NumberOfShards, indexCfg.NumberOfReplicas)),
		}
		createRes, err := createReq.Do(createCtx, esClient)
		if err != nil {
			logger.Error(fmt.Sprintf("发送创建%s索引请求失败", indexLogicalName),
				zap.String("index_name", indexCfg.Name), zap.Error(err))
			return fmt.Errorf("发送创建%s索引 '%s' 请求失败: %w", indexLogicalName, indexCfg.Name, err)
		}
		defer createRes.Body.Close()

		if createRes.IsError() {
			body := readResponseBody(createRes)
			logger.Error(fmt.Sprintf("创建%s索引失败", indexLogicalName),
				zap.String("index_name", indexCfg.Name),
				zap.String("status", createRes.Status()),
				zap.String("response", body),
			)
			return fmt.Errorf("创建%s索引 '%s' 失败, 状态码: %s, 响应: %s", indexLogicalName, indexCfg.Name, createRes.Status(), body)
		}
		logger.Info(fmt.Sprintf("成功创建%s索引及映射", indexLogicalName),
			zap.String("index_name", indexCfg.Name),
			zap.Int("shards_created", indexCfg.NumberOfShards),
			zap.Int("replicas_created", indexCfg.NumberOfReplicas),
		)
	case existsRes.IsError():
		body := readResponseBody(existsRes)
		logger.Error(fmt.Sprintf("检查%s索引存在性时出错", indexLogicalName),
			zap.String("index_name", indexCfg.Name),
			zap.String("status", existsRes.Status()),
			zap.String("response", body),
		)
		return fmt.Errorf("检查%s索引 '%s' 存在性时出错: %s", indexLogicalName, indexCfg.Name, existsRes.Status())
	default:
		logger.Info(fmt.Sprintf("%s索引已存在", indexLogicalName), zap.String("index_name", indexCfg.Name))
	}
	return nil
}

// readResponseBody 尽力读取响应体用于日志，读取失败时返回空串。
func readResponseBody(res *esapi.Response) string {
	if res.Body == nil {
		return ""
	}
	var sb strings.Builder
	if _, err := io.Copy(&sb, res.Body); err != nil {
		return ""
	}
	return sb.String()
}

// NewESClient 初始化 Elasticsearch 客户端：带退避重试的 Ping 探活，
// 然后确保公司与职位两个索引存在（不存在则按映射创建）。
func NewESClient(cfg config.ESConfig, logger *zap.Logger, transport http.RoundTripper) (*ESClient, error) {
	esClientCfg := elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: transport,
	}

	esClient, err := elasticsearch.NewClient(esClientCfg)
	if err != nil {
		logger.Error("创建 Elasticsearch 客户端失败", zap.Error(err))
		return nil, fmt.Errorf("创建 Elasticsearch 客户端失败: %w", err)
	}
	logger.Info("Elasticsearch 客户端配置完成", zap.Strings("addresses", cfg.Addresses))

	// Ping 探活。服务与 ES 常常同时启动，短暂的连接失败用指数退避吸收，
	// 超过最大等待时间仍不可达才视为致命错误。
	pingOnce := func() error {
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		pingRes, err := esClient.Ping(esClient.Ping.WithContext(pingCtx))
		if err != nil {
			return fmt.Errorf("ping Elasticsearch 失败: %w", err)
		}
		defer pingRes.Body.Close()
		if pingRes.IsError() {
			return fmt.Errorf("elasticsearch Ping 不成功: %s", pingRes.Status())
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 30 * time.Second
	notify := func(err error, next time.Duration) {
		logger.Warn("Ping Elasticsearch 失败，稍后重试",
			zap.Error(err),
			zap.Duration("next_retry_in", next),
		)
	}
	if err := backoff.RetryNotify(pingOnce, bo, notify); err != nil {
		logger.Error("Ping Elasticsearch 最终失败", zap.Error(err))
		return nil, err
	}
	logger.Info("Elasticsearch 客户端连接成功 (Ping 成功)")

	backgroundCtx := context.Background()

	if err := createIndexIfNotExists(backgroundCtx, esClient, cfg.CompanyIndex, getCompanyIndexMapping, logger, "公司"); err != nil {
		return nil, err
	}
	if err := createIndexIfNotExists(backgroundCtx, esClient, cfg.PositionIndex, getPositionIndexMapping, logger, "职位"); err != nil {
		return nil, err
	}

	return &ESClient{
		Client: esClient,
		cfg:    cfg,
		logger: logger,
	}, nil
}

// RecreateIndices 删除并重建公司与职位索引。
// 这是破坏性操作，只供数据初始化工具（cmd/es_seeder）使用。
func (c *ESClient) RecreateIndices(ctx context.Context) error {
	for _, name := range []string{c.cfg.CompanyIndex.Name, c.cfg.PositionIndex.Name} {
		deleteReq := esapi.IndicesDeleteRequest{
			Index:             []string{name},
			IgnoreUnavailable: esapi.BoolPtr(true),
		}
		res, err := deleteReq.Do(ctx, c.Client)
		if err != nil {
			c.logger.Error("发送删除索引请求失败", zap.String("index_name", name), zap.Error(err))
			return fmt.Errorf("删除索引 '%s' 失败: %w", name, err)
		}
		res.Body.Close()
		c.logger.Info("索引已删除（或本不存在）", zap.String("index_name", name))
	}

	if err := createIndexIfNotExists(ctx, c.Client, c.cfg.CompanyIndex, getCompanyIndexMapping, c.logger, "公司"); err != nil {
		return err
	}
	return createIndexIfNotExists(ctx, c.Client, c.cfg.PositionIndex, getPositionIndexMapping, c.logger, "职位")
}
