package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jobse/job_search/config"
	"github.com/jobse/job_search/internal/models"
	"github.com/jobse/job_search/internal/pkg/hashutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func strPtr(s string) *string { return &s }

func testSyncConfig() config.SyncConfig {
	return config.SyncConfig{
		InitialDelay:      time.Millisecond,
		Interval:          time.Hour,
		CompanyBatchSize:  500,
		PositionBatchSize: 1000,
		MaxRetryAttempts:  0, // 测试中不重试，失败立即可见
	}
}

func newTestSyncService(recordRepo *fakeRecordRepo, posRepo *fakePositionRepo, companyRepo *fakeCompanyRepo) *SyncService {
	return NewSyncService(recordRepo, posRepo, companyRepo, testSyncConfig(), zap.NewNop())
}

func TestSyncService_CompanyCycle(t *testing.T) {
	recordRepo := &fakeRecordRepo{
		companies: []models.CompanyRecord{
			{ID: "c1", Name: "Microsoft", Tags: strPtr(`["外企"]`)},
			{ID: "c2", Name: "HP", Tags: strPtr(`["外企","高福利"]`)},
		},
	}
	posRepo := newFakePositionRepo()
	companyRepo := newFakeCompanyRepo()
	svc := newTestSyncService(recordRepo, posRepo, companyRepo)

	svc.runCycle(context.Background())

	assert.ElementsMatch(t, []string{"c1", "c2"}, recordRepo.syncedCompanies)
	require.Contains(t, companyRepo.docs, "c1")
	assert.Equal(t, "Microsoft", companyRepo.docs["c1"].Name)
	assert.Equal(t, []string{"外企", "高福利"}, companyRepo.docs["c2"].Tags)
}

func TestSyncService_PositionCycle(t *testing.T) {
	recordRepo := &fakeRecordRepo{
		positions: []models.PositionRecord{{
			URL:            "Job Url 00",
			Title:          "C++ Engineer",
			CompanyID:      strPtr("c1"),
			CompanyName:    "Microsoft",
			UpdateTime:     time.Now(),
			SalaryProvided: true,
			SalaryMin:      15000,
			SalaryMax:      25000,
			Experience:     6,
			Degree:         models.DegreeMaster,
			Base:           `["Beijing","Shanghai"]`,
			Tags:           strPtr(`["微软","高福利"]`),
		}},
	}
	posRepo := newFakePositionRepo()
	svc := newTestSyncService(recordRepo, posRepo, newFakeCompanyRepo())

	svc.runCycle(context.Background())

	assert.Equal(t, []string{"Job Url 00"}, recordRepo.syncedPositions)

	// 文档 ID 是组合标题与来源 URL 的内容哈希。
	docID := hashutil.PositionDocumentID("Microsoft#C++ Engineer", "Job Url 00")
	require.Contains(t, posRepo.docs, docID)

	doc := posRepo.docs[docID]
	assert.Equal(t, "Microsoft#C++ Engineer", doc.Title)
	assert.Equal(t, "c1", doc.CompanyID)
	// 新文档浏览量从零开始，评分为满分基准。
	assert.Equal(t, int64(0), doc.Views)
	assert.Equal(t, 5.0, doc.Rating)
	assert.Equal(t, []string{"Beijing", "Shanghai"}, doc.Requirement.Base)
}

func TestSyncService_RowFailureIsolation(t *testing.T) {
	recordRepo := &fakeRecordRepo{
		companies: []models.CompanyRecord{
			{ID: "c1", Name: "A"},
			{ID: "c2", Name: "B"},
			{ID: "c3", Name: "C"},
		},
		positions: []models.PositionRecord{
			{URL: "u1", Title: "T1", CompanyID: strPtr("c1"), CompanyName: "A", Base: `[]`, Tags: strPtr(`[]`)},
			{URL: "u2", Title: "T2", CompanyID: strPtr("c1"), CompanyName: "A", Base: `不是JSON`, Tags: strPtr(`[]`)},
			{URL: "u3", Title: "T3", CompanyID: strPtr("c1"), CompanyName: "A", Base: `[]`, Tags: strPtr(`[]`)},
		},
	}
	posRepo := newFakePositionRepo()
	failingID := hashutil.PositionDocumentID("A#T3", "u3")
	posRepo.indexErr = func(id string) error {
		if id == failingID {
			return fmt.Errorf("模拟文档库故障")
		}
		return nil
	}
	svc := newTestSyncService(recordRepo, posRepo, newFakeCompanyRepo())

	svc.runCycle(context.Background())

	// u2 转换失败、u3 写入失败，都只影响自身：u1 正常同步，
	// 失败的两行保持未同步状态等待下一轮。
	assert.Equal(t, []string{"u1"}, recordRepo.syncedPositions)
	assert.ElementsMatch(t, []string{"c1", "c2", "c3"}, recordRepo.syncedCompanies)
}

func TestSyncService_CompanyConversionFailureIsolation(t *testing.T) {
	recordRepo := &fakeRecordRepo{
		companies: []models.CompanyRecord{
			{ID: "c1", Name: "A", Tags: strPtr(`坏掉的JSON`)},
			{ID: "c2", Name: "B"},
		},
	}
	svc := newTestSyncService(recordRepo, newFakePositionRepo(), newFakeCompanyRepo())

	svc.runCycle(context.Background())

	assert.Equal(t, []string{"c2"}, recordRepo.syncedCompanies)
}

func TestSyncService_BatchSizeLimit(t *testing.T) {
	recordRepo := &fakeRecordRepo{}
	for i := 0; i < 600; i++ {
		recordRepo.companies = append(recordRepo.companies, models.CompanyRecord{
			ID: fmt.Sprintf("c%d", i), Name: "X",
		})
	}
	svc := newTestSyncService(recordRepo, newFakePositionRepo(), newFakeCompanyRepo())

	svc.runCycle(context.Background())

	// 单轮最多处理 CompanyBatchSize 条，其余留给下一轮。
	assert.Len(t, recordRepo.syncedCompanies, 500)
}

func TestSyncService_StartClose(t *testing.T) {
	recordRepo := &fakeRecordRepo{
		companies: []models.CompanyRecord{{ID: "c1", Name: "A"}},
	}
	svc := newTestSyncService(recordRepo, newFakePositionRepo(), newFakeCompanyRepo())

	svc.Start(context.Background())

	assert.Eventually(t, func() bool {
		recordRepo.mu.Lock()
		defer recordRepo.mu.Unlock()
		return len(recordRepo.syncedCompanies) == 1
	}, 2*time.Second, 10*time.Millisecond, "首轮同步应在 InitialDelay 后执行")

	require.NoError(t, svc.Close())
	// 重复 Close 应是幂等的。
	require.NoError(t, svc.Close())
}
