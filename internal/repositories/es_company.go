// FileName: repositories/es_company.go
package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/jobse/job_search/internal/core/es"
	"github.com/jobse/job_search/internal/models"
	"go.uber.org/zap"
)

// CompanyRepository 定义公司文档在 Elasticsearch 中的访问操作。
type CompanyRepository interface {
	// Get 按文档 ID 获取单个公司。文档不存在时返回 ErrCompanyNotFound。
	Get(ctx context.Context, id string) (*models.Company, error)
	// Index 以指定 ID 写入（或整体替换）一个公司文档。
	Index(ctx context.Context, id string, doc *models.Company) error
	// Search 执行参数化公司搜索，返回一页结果（含高亮与总命中数）。
	Search(ctx context.Context, query models.CompanyQuery) (*models.CompanyInfoList, error)
	// Suggest 按名称或标签返回公司联想（最多 5 条）。
	Suggest(ctx context.Context, name string) ([]models.CompanyInfo, error)
}

type esCompanyRepository struct {
	esClient  *es.ESClient
	logger    *zap.Logger
	indexName string
}

// NewCompanyRepository 创建 CompanyRepository 的 Elasticsearch 实现。
func NewCompanyRepository(esClient *es.ESClient, logger *zap.Logger, indexName string) CompanyRepository {
	if esClient == nil || esClient.Client == nil {
		logger.Fatal("创建 CompanyRepository 失败：ESClient 未初始化")
	}
	if indexName == "" {
		logger.Fatal("创建 CompanyRepository 失败：索引名称为空")
	}
	return &esCompanyRepository{
		esClient:  esClient,
		logger:    logger,
		indexName: indexName,
	}
}

func (r *esCompanyRepository) Get(ctx context.Context, id string) (*models.Company, error) {
	req := esapi.GetRequest{
		Index:      r.indexName,
		DocumentID: id,
	}
	res, err := req.Do(ctx, r.esClient.Client)
	if err != nil {
		r.logger.Error("发送获取公司文档请求失败", zap.String("document_id", id), zap.Error(err))
		return nil, fmt.Errorf("获取公司文档 '%s' 失败: %w", id, err)
	}
	defer res.Body.Close()

	if res.StatusCode == 404 {
		return nil, ErrCompanyNotFound
	}
	if res.IsError() {
		return nil, logAndWrapESError(r.logger, "获取公司文档", res, zap.String("document_id", id))
	}

	var getRes struct {
		Source models.Company `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&getRes); err != nil {
		r.logger.Error("解析公司文档响应失败", zap.String("document_id", id), zap.Error(err))
		return nil, fmt.Errorf("解析公司文档 '%s' 响应失败: %w", id, err)
	}
	return &getRes.Source, nil
}

func (r *esCompanyRepository) Index(ctx context.Context, id string, doc *models.Company) error {
	docJSON, err := json.Marshal(doc)
	if err != nil {
		r.logger.Error("序列化公司文档失败", zap.String("document_id", id), zap.Error(err))
		return fmt.Errorf("序列化公司文档 '%s' 失败: %w", id, err)
	}

	req := esapi.IndexRequest{
		Index:      r.indexName,
		DocumentID: id,
		Body:       bytes.NewReader(docJSON),
	}
	res, err := req.Do(ctx, r.esClient.Client)
	if err != nil {
		r.logger.Error("发送索引公司文档请求失败", zap.String("document_id", id), zap.Error(err))
		return fmt.Errorf("索引公司文档 '%s' 失败: %w", id, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return logAndWrapESError(r.logger, "索引公司文档", res, zap.String("document_id", id))
	}
	r.logger.Debug("公司文档已写入", zap.String("document_id", id), zap.String("name", doc.Name))
	return nil
}

// runSearch 执行公司索引上的搜索请求并解码响应骨架。
func (r *esCompanyRepository) runSearch(ctx context.Context, op string, queryJSON []byte) (*esSearchResponse, error) {
	res, err := r.esClient.Client.Search(
		r.esClient.Client.Search.WithContext(ctx),
		r.esClient.Client.Search.WithIndex(r.indexName),
		r.esClient.Client.Search.WithBody(bytes.NewReader(queryJSON)),
	)
	if err != nil {
		r.logger.Error(fmt.Sprintf("发送搜索请求失败: %s", op), zap.Error(err))
		return nil, fmt.Errorf("%s失败: %w", op, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, logAndWrapESError(r.logger, op, res)
	}

	var searchRes esSearchResponse
	if err := json.NewDecoder(res.Body).Decode(&searchRes); err != nil {
		r.logger.Error(fmt.Sprintf("解析搜索响应失败: %s", op), zap.Error(err))
		return nil, fmt.Errorf("解析%s响应失败: %w", op, err)
	}
	return &searchRes, nil
}

// decodeCompanyHits 把命中列表解码为 CompanyInfo 列表并附带高亮。
func (r *esCompanyRepository) decodeCompanyHits(hits []esHit) []models.CompanyInfo {
	companies := make([]models.CompanyInfo, 0, len(hits))
	for _, hit := range hits {
		var company models.Company
		if err := json.Unmarshal(hit.Source, &company); err != nil {
			r.logger.Warn("跳过无法解析的公司文档",
				zap.String("document_id", hit.ID), zap.Error(err))
			continue
		}
		companies = append(companies, models.CompanyInfo{
			ID:        hit.ID,
			Company:   company,
			Highlight: models.NewCompanyHighlight(hit.Highlight),
		})
	}
	return companies
}

func (r *esCompanyRepository) Search(ctx context.Context, query models.CompanyQuery) (*models.CompanyInfoList, error) {
	queryJSON, err := buildCompanySearchQuery(query)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("执行公司搜索", zap.ByteString("query_dsl", queryJSON))

	searchRes, err := r.runSearch(ctx, "搜索公司", queryJSON)
	if err != nil {
		return nil, err
	}
	return &models.CompanyInfoList{
		Total:       searchRes.Hits.Total.Value,
		CompanyList: r.decodeCompanyHits(searchRes.Hits.Hits),
	}, nil
}

func (r *esCompanyRepository) Suggest(ctx context.Context, name string) ([]models.CompanyInfo, error) {
	queryJSON, err := buildCompanySuggestQuery(name)
	if err != nil {
		return nil, err
	}

	searchRes, err := r.runSearch(ctx, "公司输入联想", queryJSON)
	if err != nil {
		return nil, err
	}
	return r.decodeCompanyHits(searchRes.Hits.Hits), nil
}
