// FileName: repositories/es_position.go
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

// PositionRepository 定义职位文档在 Elasticsearch 中的所有访问操作。
// 实现只负责“文档进出”，不做任何业务编排：高亮解析、公司信息补全、
// 浏览量与评分的演化全部在 service 层完成。
type PositionRepository interface {
	// Get 按文档 ID 获取单个职位。文档不存在时返回 ErrPositionNotFound。
	Get(ctx context.Context, id string) (*models.Position, error)
	// Index 以指定 ID 写入（或整体替换）一个职位文档。
	Index(ctx context.Context, id string, doc *models.Position) error
	// Update 整体替换已有职位文档。语义与 Index 相同，单独列出以表达调用方意图。
	Update(ctx context.Context, id string, doc *models.Position) error
	// Search 执行参数化职位搜索，返回一页结果（含高亮与总命中数）。
	Search(ctx context.Context, query models.PositionQuery) (*models.PositionInfoList, error)
	// SearchRelevant 按标题检索相关职位，排除指定文档自身。
	SearchRelevant(ctx context.Context, query models.RelevantPositionQuery) (*models.PositionInfoList, error)
	// SearchByCompany 按公司 ID 列出职位，按更新时间降序分页。
	SearchByCompany(ctx context.Context, companyID string, start, limit int) (*models.PositionInfoList, error)
	// Suggest 按关键字返回职位标题联想（最多 5 条）。
	Suggest(ctx context.Context, keyword string) ([]models.PositionSuggestion, error)
	// Count 返回指定公司名下的职位总数。
	Count(ctx context.Context, companyID string) (int64, error)
	// CompanyStatistics 聚合指定公司全部职位的统计信息。
	CompanyStatistics(ctx context.Context, companyID string) (*models.CompanyStatistics, error)
}

type esPositionRepository struct {
	esClient  *es.ESClient
	logger    *zap.Logger
	indexName string
}

// NewPositionRepository 创建 PositionRepository 的 Elasticsearch 实现。
func NewPositionRepository(esClient *es.ESClient, logger *zap.Logger, indexName string) PositionRepository {
	if esClient == nil || esClient.Client == nil {
		logger.Fatal("创建 PositionRepository 失败：ESClient 未初始化")
	}
	if indexName == "" {
		logger.Fatal("创建 PositionRepository 失败：索引名称为空")
	}
	return &esPositionRepository{
		esClient:  esClient,
		logger:    logger,
		indexName: indexName,
	}
}

// esSearchResponse 是职位/公司搜索共用的响应骨架。
// 只解码需要的字段，其余部分留在原始 JSON 中不动。
type esSearchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []esHit `json:"hits"`
	} `json:"hits"`
}

type esHit struct {
	ID        string              `json:"_id"`
	Source    json.RawMessage     `json:"_source"`
	Highlight map[string][]string `json:"highlight"`
}

// logAndWrapESError 记录失败响应并将其归一为 *BackendError。
func logAndWrapESError(logger *zap.Logger, op string, res *esapi.Response, fields ...zap.Field) error {
	body := readErrorBody(res)
	allFields := append(fields,
		zap.String("status", res.Status()),
		zap.String("response", body),
	)
	logger.Error(fmt.Sprintf("Elasticsearch 操作失败: %s", op), allFields...)
	return &BackendError{Op: op, Status: res.Status(), Detail: body}
}

// readErrorBody 尽力读取失败响应体用于诊断。
func readErrorBody(res *esapi.Response) string {
	if res.Body == nil {
		return ""
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(res.Body); err != nil {
		return ""
	}
	return buf.String()
}

func (r *esPositionRepository) Get(ctx context.Context, id string) (*models.Position, error) {
	req := esapi.GetRequest{
		Index:      r.indexName,
		DocumentID: id,
	}
	res, err := req.Do(ctx, r.esClient.Client)
	if err != nil {
		r.logger.Error("发送获取职位文档请求失败", zap.String("document_id", id), zap.Error(err))
		return nil, fmt.Errorf("获取职位文档 '%s' 失败: %w", id, err)
	}
	defer res.Body.Close()

	if res.StatusCode == 404 {
		return nil, ErrPositionNotFound
	}
	if res.IsError() {
		return nil, logAndWrapESError(r.logger, "获取职位文档", res, zap.String("document_id", id))
	}

	var getRes struct {
		Source models.Position `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&getRes); err != nil {
		r.logger.Error("解析职位文档响应失败", zap.String("document_id", id), zap.Error(err))
		return nil, fmt.Errorf("解析职位文档 '%s' 响应失败: %w", id, err)
	}
	return &getRes.Source, nil
}

func (r *esPositionRepository) Index(ctx context.Context, id string, doc *models.Position) error {
	docJSON, err := json.Marshal(doc)
	if err != nil {
		r.logger.Error("序列化职位文档失败", zap.String("document_id", id), zap.Error(err))
		return fmt.Errorf("序列化职位文档 '%s' 失败: %w", id, err)
	}

	req := esapi.IndexRequest{
		Index:      r.indexName,
		DocumentID: id,
		Body:       bytes.NewReader(docJSON),
	}
	res, err := req.Do(ctx, r.esClient.Client)
	if err != nil {
		r.logger.Error("发送索引职位文档请求失败", zap.String("document_id", id), zap.Error(err))
		return fmt.Errorf("索引职位文档 '%s' 失败: %w", id, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return logAndWrapESError(r.logger, "索引职位文档", res, zap.String("document_id", id))
	}
	r.logger.Debug("职位文档已写入", zap.String("document_id", id), zap.String("title", doc.Title))
	return nil
}

func (r *esPositionRepository) Update(ctx context.Context, id string, doc *models.Position) error {
	// 浏览量与评分的更新写回的是完整文档，整体替换即可，
	// 不需要部分更新脚本。
	return r.Index(ctx, id, doc)
}

// runSearch 执行搜索请求并解码响应骨架。
func (r *esPositionRepository) runSearch(ctx context.Context, op string, queryJSON []byte) (*esSearchResponse, error) {
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

// decodePositionHits 把命中列表解码为 PositionInfo 列表并附带高亮。
// 单个文档解码失败只记日志并跳过，不让一条坏文档毁掉整页结果。
func (r *esPositionRepository) decodePositionHits(hits []esHit) []models.PositionInfo {
	positions := make([]models.PositionInfo, 0, len(hits))
	for _, hit := range hits {
		var pos models.Position
		if err := json.Unmarshal(hit.Source, &pos); err != nil {
			r.logger.Warn("跳过无法解析的职位文档",
				zap.String("document_id", hit.ID), zap.Error(err))
			continue
		}
		positions = append(positions, models.PositionInfo{
			ID:        hit.ID,
			Position:  pos,
			Highlight: models.NewPositionHighlight(hit.Highlight),
		})
	}
	return positions
}

func (r *esPositionRepository) Search(ctx context.Context, query models.PositionQuery) (*models.PositionInfoList, error) {
	queryJSON, err := buildPositionSearchQuery(query)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("执行职位搜索", zap.ByteString("query_dsl", queryJSON))

	searchRes, err := r.runSearch(ctx, "搜索职位", queryJSON)
	if err != nil {
		return nil, err
	}
	return &models.PositionInfoList{
		Total:     searchRes.Hits.Total.Value,
		Positions: r.decodePositionHits(searchRes.Hits.Hits),
	}, nil
}

func (r *esPositionRepository) SearchRelevant(ctx context.Context, query models.RelevantPositionQuery) (*models.PositionInfoList, error) {
	queryJSON, err := buildRelevantPositionQuery(query)
	if err != nil {
		return nil, err
	}

	searchRes, err := r.runSearch(ctx, "搜索相关职位", queryJSON)
	if err != nil {
		return nil, err
	}
	return &models.PositionInfoList{
		Total:     searchRes.Hits.Total.Value,
		Positions: r.decodePositionHits(searchRes.Hits.Hits),
	}, nil
}

func (r *esPositionRepository) SearchByCompany(ctx context.Context, companyID string, start, limit int) (*models.PositionInfoList, error) {
	queryJSON, err := buildCompanyPositionsQuery(companyID, start, limit)
	if err != nil {
		return nil, err
	}

	searchRes, err := r.runSearch(ctx, "按公司列出职位", queryJSON)
	if err != nil {
		return nil, err
	}
	return &models.PositionInfoList{
		Total:     searchRes.Hits.Total.Value,
		Positions: r.decodePositionHits(searchRes.Hits.Hits),
	}, nil
}

func (r *esPositionRepository) Suggest(ctx context.Context, keyword string) ([]models.PositionSuggestion, error) {
	queryJSON, err := buildPositionSuggestQuery(keyword)
	if err != nil {
		return nil, err
	}

	searchRes, err := r.runSearch(ctx, "职位输入联想", queryJSON)
	if err != nil {
		return nil, err
	}

	suggestions := make([]models.PositionSuggestion, 0, len(searchRes.Hits.Hits))
	for _, hit := range searchRes.Hits.Hits {
		var partial struct {
			Title string `json:"title"`
			Views int64  `json:"views"`
		}
		if err := json.Unmarshal(hit.Source, &partial); err != nil {
			r.logger.Warn("跳过无法解析的联想结果",
				zap.String("document_id", hit.ID), zap.Error(err))
			continue
		}
		suggestions = append(suggestions, models.PositionSuggestion{
			ID:    hit.ID,
			Title: partial.Title,
			Views: partial.Views,
		})
	}
	return suggestions, nil
}

func (r *esPositionRepository) Count(ctx context.Context, companyID string) (int64, error) {
	countQuery := map[string]interface{}{
		"query": map[string]interface{}{
			"term": map[string]interface{}{"company_id": companyID},
		},
	}
	queryJSON, err := json.Marshal(countQuery)
	if err != nil {
		return 0, fmt.Errorf("序列化职位计数查询失败: %w", err)
	}

	res, err := r.esClient.Client.Count(
		r.esClient.Client.Count.WithContext(ctx),
		r.esClient.Client.Count.WithIndex(r.indexName),
		r.esClient.Client.Count.WithBody(bytes.NewReader(queryJSON)),
	)
	if err != nil {
		r.logger.Error("发送职位计数请求失败", zap.String("company_id", companyID), zap.Error(err))
		return 0, fmt.Errorf("统计公司 '%s' 职位数失败: %w", companyID, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, logAndWrapESError(r.logger, "统计职位数", res, zap.String("company_id", companyID))
	}

	var countRes struct {
		Count int64 `json:"count"`
	}
	if err := json.NewDecoder(res.Body).Decode(&countRes); err != nil {
		return 0, fmt.Errorf("解析职位计数响应失败: %w", err)
	}
	return countRes.Count, nil
}

func (r *esPositionRepository) CompanyStatistics(ctx context.Context, companyID string) (*models.CompanyStatistics, error) {
	queryJSON, err := buildCompanyStatisticsQuery(companyID)
	if err != nil {
		return nil, err
	}

	res, err := r.esClient.Client.Search(
		r.esClient.Client.Search.WithContext(ctx),
		r.esClient.Client.Search.WithIndex(r.indexName),
		r.esClient.Client.Search.WithBody(bytes.NewReader(queryJSON)),
		r.esClient.Client.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		r.logger.Error("发送公司统计聚合请求失败", zap.String("company_id", companyID), zap.Error(err))
		return nil, fmt.Errorf("聚合公司 '%s' 统计失败: %w", companyID, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, logAndWrapESError(r.logger, "公司统计聚合", res, zap.String("company_id", companyID))
	}

	var aggRes struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
		} `json:"hits"`
		Aggregations struct {
			AverageSalary struct {
				Value *float64 `json:"value"`
			} `json:"average_salary"`
			AverageRating struct {
				Value *float64 `json:"value"`
			} `json:"average_rating"`
			AverageViews struct {
				Value *float64 `json:"value"`
			} `json:"average_views"`
			Tags struct {
				Buckets []struct {
					Key      string `json:"key"`
					DocCount int64  `json:"doc_count"`
				} `json:"buckets"`
			} `json:"tags"`
			SalaryRange struct {
				Buckets []struct {
					DocCount int64 `json:"doc_count"`
				} `json:"buckets"`
			} `json:"salary_range"`
		} `json:"aggregations"`
	}
	if err := json.NewDecoder(res.Body).Decode(&aggRes); err != nil {
		r.logger.Error("解析公司统计聚合响应失败", zap.String("company_id", companyID), zap.Error(err))
		return nil, fmt.Errorf("解析公司 '%s' 统计响应失败: %w", companyID, err)
	}

	stats := &models.CompanyStatistics{
		TotalCount:       aggRes.Hits.Total.Value,
		AverageSalary:    aggRes.Aggregations.AverageSalary.Value,
		AverageRating:    aggRes.Aggregations.AverageRating.Value,
		AverageViewCount: aggRes.Aggregations.AverageViews.Value,
	}
	for _, b := range aggRes.Aggregations.Tags.Buckets {
		stats.Tags = append(stats.Tags, models.TagBucket{Tag: b.Key, Count: b.DocCount})
	}
	for _, b := range aggRes.Aggregations.SalaryRange.Buckets {
		stats.SalaryRange = append(stats.SalaryRange, b.DocCount)
	}
	return stats, nil
}
