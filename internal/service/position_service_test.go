package service

import (
	"context"
	"testing"
	"time"

	"github.com/jobse/job_search/internal/models"
	"github.com/jobse/job_search/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestPositionService(posRepo *fakePositionRepo, companyRepo *fakeCompanyRepo) (*PositionService, *fakeHotTagRepo) {
	logger := zap.NewNop()
	hotTagRepo := newFakeHotTagRepo()
	tagSvc := NewTagService(hotTagRepo, logger)
	return NewPositionService(posRepo, companyRepo, tagSvc, logger), hotTagRepo
}

func TestPositionService_Rate_FirstRating(t *testing.T) {
	posRepo := newFakePositionRepo()
	posRepo.docs["doc1"] = models.Position{Title: "HP#C++ Engineer", Rating: 5.0, Views: 0}
	svc, _ := newTestPositionService(posRepo, newFakeCompanyRepo())

	rating, err := svc.Rate(context.Background(), "doc1", 3.0)
	require.NoError(t, err)
	// 浏览量为零时直接取本次评分。
	assert.Equal(t, 3.0, rating)
	assert.Equal(t, 3.0, posRepo.docs["doc1"].Rating)
}

func TestPositionService_Rate_WeightedFormula(t *testing.T) {
	posRepo := newFakePositionRepo()
	posRepo.docs["doc1"] = models.Position{Rating: 4.0, Views: 10}
	svc, _ := newTestPositionService(posRepo, newFakeCompanyRepo())

	rating, err := svc.Rate(context.Background(), "doc1", 2.0)
	require.NoError(t, err)
	// (4.0*(10-1) + 2.0) / 10 = 3.8
	assert.InDelta(t, 3.8, rating, 1e-9)
}

func TestPositionService_Rate_PreservesRange(t *testing.T) {
	// 旧评分与新评分都在 [0,5] 内时，加权平均不可能越界。
	posRepo := newFakePositionRepo()
	posRepo.docs["doc1"] = models.Position{Rating: 5.0, Views: 100}
	svc, _ := newTestPositionService(posRepo, newFakeCompanyRepo())

	rating, err := svc.Rate(context.Background(), "doc1", 0.0)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, rating, 0.0)
	assert.LessOrEqual(t, rating, 5.0)
}

func TestPositionService_Rate_InvalidScore(t *testing.T) {
	posRepo := newFakePositionRepo()
	posRepo.docs["doc1"] = models.Position{Rating: 4.0, Views: 10}
	svc, _ := newTestPositionService(posRepo, newFakeCompanyRepo())

	_, err := svc.Rate(context.Background(), "doc1", 5.5)
	assert.ErrorIs(t, err, ErrInvalidRatingScore)
	_, err = svc.Rate(context.Background(), "doc1", -0.1)
	assert.ErrorIs(t, err, ErrInvalidRatingScore)
	// 非法评分不应触碰文档。
	assert.Equal(t, 4.0, posRepo.docs["doc1"].Rating)
}

func TestPositionService_Rate_NotFound(t *testing.T) {
	svc, _ := newTestPositionService(newFakePositionRepo(), newFakeCompanyRepo())
	_, err := svc.Rate(context.Background(), "missing", 3.0)
	assert.ErrorIs(t, err, repositories.ErrPositionNotFound)
}

func TestPositionService_Detail_IncrementsViews(t *testing.T) {
	posRepo := newFakePositionRepo()
	posRepo.docs["doc1"] = models.Position{Title: "Microsoft#C++ Engineer", Views: 7, CompanyID: "company-0"}
	companyRepo := newFakeCompanyRepo()
	companyRepo.docs["company-0"] = models.Company{Name: "Microsoft", Description: "full text"}
	svc, _ := newTestPositionService(posRepo, companyRepo)

	detail, err := svc.Detail(context.Background(), "doc1")
	require.NoError(t, err)
	// 返回的是加一后的值。
	assert.Equal(t, int64(8), detail.Position.Views)
	require.NotNil(t, detail.Company)
	assert.Equal(t, "Microsoft", detail.Company.Name)

	// 写回是异步的，轮询等待其落库。
	assert.Eventually(t, func() bool {
		posRepo.mu.Lock()
		defer posRepo.mu.Unlock()
		return posRepo.docs["doc1"].Views == 8
	}, time.Second, 10*time.Millisecond, "浏览量应异步写回")
}

func TestPositionService_Detail_CompanyFailureDegrades(t *testing.T) {
	posRepo := newFakePositionRepo()
	posRepo.docs["doc1"] = models.Position{Views: 0, CompanyID: "missing-company"}
	svc, _ := newTestPositionService(posRepo, newFakeCompanyRepo())

	detail, err := svc.Detail(context.Background(), "doc1")
	require.NoError(t, err, "公司信息获取失败不应让详情请求失败")
	assert.Nil(t, detail.Company)
}

func TestPositionService_Search_EnrichmentMemoized(t *testing.T) {
	posRepo := newFakePositionRepo()
	posRepo.searchRes = &models.PositionInfoList{
		Total: 3,
		Positions: []models.PositionInfo{
			{ID: "a", Position: models.Position{CompanyID: "company-0"}},
			{ID: "b", Position: models.Position{CompanyID: "company-0"}},
			{ID: "c", Position: models.Position{CompanyID: "company-1"}},
		},
	}
	companyRepo := newFakeCompanyRepo()
	companyRepo.docs["company-0"] = models.Company{Name: "Microsoft", Description: "full text"}
	companyRepo.docs["company-1"] = models.Company{Name: "HP", Description: "full text"}
	svc, _ := newTestPositionService(posRepo, companyRepo)

	res, err := svc.Search(context.Background(), models.PositionQuery{Experience: -1, Limit: 10})
	require.NoError(t, err)

	// 同一公司页内只查一次。
	assert.Equal(t, 1, companyRepo.getCalls["company-0"])
	assert.Equal(t, 1, companyRepo.getCalls["company-1"])
	require.Len(t, res.Companies, 2)
	// 响应中的公司信息剥除描述正文。
	assert.Empty(t, res.Companies["company-0"].Description)
	assert.Equal(t, "Microsoft", res.Companies["company-0"].Name)
}

func TestPositionService_Search_MissingCompanyOmitted(t *testing.T) {
	posRepo := newFakePositionRepo()
	posRepo.searchRes = &models.PositionInfoList{
		Total: 2,
		Positions: []models.PositionInfo{
			{ID: "a", Position: models.Position{CompanyID: "company-0"}},
			{ID: "b", Position: models.Position{CompanyID: "gone"}},
			{ID: "c", Position: models.Position{CompanyID: "gone"}},
		},
	}
	companyRepo := newFakeCompanyRepo()
	companyRepo.docs["company-0"] = models.Company{Name: "Microsoft"}
	svc, _ := newTestPositionService(posRepo, companyRepo)

	res, err := svc.Search(context.Background(), models.PositionQuery{Experience: -1, Limit: 10})
	require.NoError(t, err)

	// 查不到的公司在响应中缺席，且 miss 后页内不再重试。
	assert.NotContains(t, res.Companies, "gone")
	assert.Equal(t, 1, companyRepo.getCalls["gone"])
}

func TestPositionService_Search_RecordsTagMentions(t *testing.T) {
	posRepo := newFakePositionRepo()
	posRepo.searchRes = &models.PositionInfoList{}
	svc, hotTagRepo := newTestPositionService(posRepo, newFakeCompanyRepo())

	_, err := svc.Search(context.Background(), models.PositionQuery{
		Tags: []string{"外企", "高福利"}, Experience: -1, Limit: 10,
	})
	require.NoError(t, err)

	// 标签计数在后台 goroutine 中完成。
	assert.Eventually(t, func() bool {
		hotTagRepo.mu.Lock()
		defer hotTagRepo.mu.Unlock()
		return hotTagRepo.counts["外企"] == 1 && hotTagRepo.counts["高福利"] == 1
	}, time.Second, 10*time.Millisecond)
}

func TestPositionService_Suggest_EmptyKeyword(t *testing.T) {
	svc, _ := newTestPositionService(newFakePositionRepo(), newFakeCompanyRepo())
	_, err := svc.Suggest(context.Background(), "")
	assert.Error(t, err)
}
