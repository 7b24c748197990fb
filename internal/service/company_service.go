// FileName: service/company_service.go
package service

import (
	"context"
	"fmt"

	"github.com/jobse/job_search/internal/models"
	"github.com/jobse/job_search/internal/repositories"
	"go.uber.org/zap"
)

// CompanyService 封装公司侧的业务编排。
type CompanyService struct {
	companyRepo  repositories.CompanyRepository
	positionRepo repositories.PositionRepository
	logger       *zap.Logger
}

// NewCompanyService 创建 CompanyService 实例。
func NewCompanyService(
	companyRepo repositories.CompanyRepository,
	positionRepo repositories.PositionRepository,
	logger *zap.Logger,
) *CompanyService {
	if companyRepo == nil || positionRepo == nil {
		logger.Fatal("创建 CompanyService 失败：依赖未初始化")
	}
	return &CompanyService{
		companyRepo:  companyRepo,
		positionRepo: positionRepo,
		logger:       logger,
	}
}

// Get 按 ID 获取公司详情（含描述正文）。
func (s *CompanyService) Get(ctx context.Context, id string) (*models.Company, error) {
	return s.companyRepo.Get(ctx, id)
}

// Search 执行参数化公司搜索。
func (s *CompanyService) Search(ctx context.Context, query models.CompanyQuery) (*models.CompanyInfoList, error) {
	return s.companyRepo.Search(ctx, query)
}

// Suggest 返回公司名称/标签的输入联想。关键字不能为空。
func (s *CompanyService) Suggest(ctx context.Context, name string) ([]models.CompanyInfo, error) {
	if name == "" {
		return nil, fmt.Errorf("联想关键字不能为空")
	}
	return s.companyRepo.Suggest(ctx, name)
}

// PositionCount 返回公司名下的职位总数。
func (s *CompanyService) PositionCount(ctx context.Context, companyID string) (int64, error) {
	return s.positionRepo.Count(ctx, companyID)
}

// Statistics 聚合公司全部职位的统计信息（平均薪资、评分、浏览量、
// 标签分布与薪资直方图）。
func (s *CompanyService) Statistics(ctx context.Context, companyID string) (*models.CompanyStatistics, error) {
	return s.positionRepo.CompanyStatistics(ctx, companyID)
}
