package service

import (
	"context"
	"sync"
	"time"

	"github.com/jobse/job_search/internal/models"
	"github.com/jobse/job_search/internal/repositories"
)

// fakePositionRepo 是 PositionRepository 的内存实现。
// Detail 的浏览量写回发生在独立 goroutine 中，所有访问都要持锁。
type fakePositionRepo struct {
	mu        sync.Mutex
	docs      map[string]models.Position
	searchRes *models.PositionInfoList
	searchErr error
	indexErr  func(id string) error
	updates   []string // 记录 Update 调用的文档 ID 顺序
}

func newFakePositionRepo() *fakePositionRepo {
	return &fakePositionRepo{docs: make(map[string]models.Position)}
}

func (f *fakePositionRepo) Get(_ context.Context, id string) (*models.Position, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[id]
	if !ok {
		return nil, repositories.ErrPositionNotFound
	}
	copied := doc
	return &copied, nil
}

func (f *fakePositionRepo) Index(_ context.Context, id string, doc *models.Position) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.indexErr != nil {
		if err := f.indexErr(id); err != nil {
			return err
		}
	}
	f.docs[id] = *doc
	return nil
}

func (f *fakePositionRepo) Update(ctx context.Context, id string, doc *models.Position) error {
	f.mu.Lock()
	f.updates = append(f.updates, id)
	f.mu.Unlock()
	return f.Index(ctx, id, doc)
}

func (f *fakePositionRepo) Search(_ context.Context, _ models.PositionQuery) (*models.PositionInfoList, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.searchRes, nil
}

func (f *fakePositionRepo) SearchRelevant(_ context.Context, _ models.RelevantPositionQuery) (*models.PositionInfoList, error) {
	return f.searchRes, nil
}

func (f *fakePositionRepo) SearchByCompany(_ context.Context, _ string, _, _ int) (*models.PositionInfoList, error) {
	return f.searchRes, nil
}

func (f *fakePositionRepo) Suggest(_ context.Context, _ string) ([]models.PositionSuggestion, error) {
	return nil, nil
}

func (f *fakePositionRepo) Count(_ context.Context, _ string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.docs)), nil
}

func (f *fakePositionRepo) CompanyStatistics(_ context.Context, _ string) (*models.CompanyStatistics, error) {
	return &models.CompanyStatistics{}, nil
}

// fakeCompanyRepo 是 CompanyRepository 的内存实现，统计 Get 调用次数
// 以验证页内去重。
type fakeCompanyRepo struct {
	mu       sync.Mutex
	docs     map[string]models.Company
	getCalls map[string]int
}

func newFakeCompanyRepo() *fakeCompanyRepo {
	return &fakeCompanyRepo{
		docs:     make(map[string]models.Company),
		getCalls: make(map[string]int),
	}
}

func (f *fakeCompanyRepo) Get(_ context.Context, id string) (*models.Company, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls[id]++
	doc, ok := f.docs[id]
	if !ok {
		return nil, repositories.ErrCompanyNotFound
	}
	copied := doc
	return &copied, nil
}

func (f *fakeCompanyRepo) Index(_ context.Context, id string, doc *models.Company) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[id] = *doc
	return nil
}

func (f *fakeCompanyRepo) Search(_ context.Context, _ models.CompanyQuery) (*models.CompanyInfoList, error) {
	return &models.CompanyInfoList{}, nil
}

func (f *fakeCompanyRepo) Suggest(_ context.Context, _ string) ([]models.CompanyInfo, error) {
	return nil, nil
}

// fakeHotTagRepo 是 HotTagRepository 的内存实现。
type fakeHotTagRepo struct {
	mu     sync.Mutex
	counts map[string]int
	tags   []models.HotTag
}

func newFakeHotTagRepo() *fakeHotTagRepo {
	return &fakeHotTagRepo{counts: make(map[string]int)}
}

func (f *fakeHotTagRepo) IncrementTag(_ context.Context, tagName string, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[tagName]++
	return nil
}

func (f *fakeHotTagRepo) GetHotTags(_ context.Context, _ time.Time, _ int) ([]models.HotTag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tags, nil
}

// fakeRecordRepo 是 RecordRepository 的内存实现，记录被标记为已同步的键。
type fakeRecordRepo struct {
	mu              sync.Mutex
	companies       []models.CompanyRecord
	positions       []models.PositionRecord
	syncedCompanies []string
	syncedPositions []string
}

func (f *fakeRecordRepo) UnsyncedCompanies(_ context.Context, limit int) ([]models.CompanyRecord, error) {
	if len(f.companies) > limit {
		return f.companies[:limit], nil
	}
	return f.companies, nil
}

func (f *fakeRecordRepo) UnsyncedPositions(_ context.Context, limit int) ([]models.PositionRecord, error) {
	if len(f.positions) > limit {
		return f.positions[:limit], nil
	}
	return f.positions, nil
}

func (f *fakeRecordRepo) MarkCompaniesSynced(_ context.Context, ids []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.syncedCompanies = append(f.syncedCompanies, ids...)
	return nil
}

func (f *fakeRecordRepo) MarkPositionsSynced(_ context.Context, urls []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.syncedPositions = append(f.syncedPositions, urls...)
	return nil
}
