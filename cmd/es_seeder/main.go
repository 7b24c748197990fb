// es_seeder 重建公司与职位索引并写入一组演示数据。
// 这是破坏性的开发辅助工具：两个索引会被删除重建，只应对本地环境使用。
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/jobse/job_search/config"
	coreES "github.com/jobse/job_search/internal/core/es"
	"github.com/jobse/job_search/internal/core/logger"
	"github.com/jobse/job_search/internal/models"
	"github.com/jobse/job_search/internal/pkg/hashutil"
	"github.com/jobse/job_search/internal/repositories"
	"go.uber.org/zap"
)

func main() {
	var configFile string
	flag.StringVar(&configFile, "config", "config/config.development.yaml", "指定配置文件的路径")
	flag.Parse()

	var cfg config.JobSearchConfig
	if err := config.LoadConfig(configFile, &cfg); err != nil {
		log.Fatalf("致命错误: 加载配置文件 '%s' 失败: %v", configFile, err)
	}

	zapLogger, err := logger.NewZapLogger(cfg.ZapConfig)
	if err != nil {
		log.Fatalf("致命错误: 初始化 ZapLogger 失败: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	esClient, err := coreES.NewESClient(cfg.ElasticsearchConfig, zapLogger, nil)
	if err != nil {
		zapLogger.Fatal("创建 Elasticsearch 客户端失败", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	zapLogger.Info("正在重建索引...")
	if err := esClient.RecreateIndices(ctx); err != nil {
		zapLogger.Fatal("重建索引失败", zap.Error(err))
	}

	companyRepo := repositories.NewCompanyRepository(esClient, zapLogger, cfg.ElasticsearchConfig.CompanyIndex.Name)
	positionRepo := repositories.NewPositionRepository(esClient, zapLogger, cfg.ElasticsearchConfig.PositionIndex.Name)

	companies := map[string]models.Company{
		"company-0": {
			Name:        "Microsoft",
			IconURL:     "iurl0",
			Location:    "San Francisco",
			Description: "Description For Microsoft",
			Tags:        []string{"外企", "高福利"},
		},
		"company-1": {
			Name:        "HP",
			IconURL:     "iurl1",
			Location:    "New York",
			Description: "Description For HP",
			Tags:        []string{"外企"},
		},
	}
	for id := range companies {
		doc := companies[id]
		if err := companyRepo.Index(ctx, id, &doc); err != nil {
			zapLogger.Fatal("写入公司演示数据失败", zap.String("company_id", id), zap.Error(err))
		}
	}
	zapLogger.Info("公司演示数据写入完成", zap.Int("count", len(companies)))

	now := time.Now()
	positions := []models.Position{
		{
			Title:      "Microsoft#C++ Engineer",
			CompanyID:  "company-0",
			UpdateTime: now,
			Salary: models.Salary{
				Provided: true,
				Amount:   models.SalaryAmount{GreaterThanOrEqualTo: 15000, LessThanOrEqualTo: 25000},
			},
			Requirement: models.JobRequirement{
				Experience: 6,
				Degree:     models.DegreeMaster,
				Base:       []string{"Beijing", "Shanghai"},
			},
			Description: models.JobDescription{
				URL:         "Job Url 00",
				Description: "Job Des for 00",
				Tags:        []string{"微软", "高福利"},
			},
		},
		{
			Title:      "Microsoft#Java Engineer",
			CompanyID:  "company-0",
			UpdateTime: now.Add(-24 * time.Hour),
			Salary: models.Salary{
				Provided: false,
				Amount:   models.SalaryAmount{GreaterThanOrEqualTo: 20000, LessThanOrEqualTo: 25000},
			},
			Requirement: models.JobRequirement{
				Experience: 36,
				Degree:     models.DegreeBachelor,
				Base:       []string{"Beijing", "Chengdu"},
			},
			Description: models.JobDescription{
				URL:         "Job Url 01",
				Description: "Job Des for 01",
				Tags:        []string{"微软", "高福利"},
			},
		},
		{
			Title:      "HP#C++ Engineer(Extra)",
			CompanyID:  "company-1",
			UpdateTime: now.Add(-5 * 24 * time.Hour),
			Salary: models.Salary{
				Provided: true,
				Amount:   models.SalaryAmount{GreaterThanOrEqualTo: 20000, LessThanOrEqualTo: 30000},
			},
			Requirement: models.JobRequirement{
				Experience: 18,
				Degree:     models.DegreeMaster,
				Base:       []string{"Guangdong", "Shanghai"},
			},
			Description: models.JobDescription{
				URL:         "Job Url 10",
				Description: "Job Des for 10",
				Tags:        []string{"外企", "高福利"},
			},
		},
		{
			Title:      "HP#Java Engineer(Extra)",
			CompanyID:  "company-1",
			UpdateTime: now.Add(-6 * 24 * time.Hour),
			Salary: models.Salary{
				Provided: false,
				Amount:   models.SalaryAmount{GreaterThanOrEqualTo: 30000, LessThanOrEqualTo: 40000},
			},
			Requirement: models.JobRequirement{
				Experience: 24,
				Degree:     models.DegreeDoctor,
				Base:       []string{"Nanjing", "Chengdu"},
			},
			Description: models.JobDescription{
				URL:         "Job Url 11",
				Description: "Job Des for 11",
				Tags:        []string{"外企", "高福利"},
			},
		},
	}
	for i := range positions {
		doc := positions[i]
		docID := hashutil.PositionDocumentID(doc.Title, doc.Description.URL)
		if err := positionRepo.Index(ctx, docID, &doc); err != nil {
			zapLogger.Fatal("写入职位演示数据失败", zap.String("title", doc.Title), zap.Error(err))
		}
	}
	zapLogger.Info("职位演示数据写入完成", zap.Int("count", len(positions)))
	zapLogger.Info("索引重建与演示数据写入全部完成")
}
