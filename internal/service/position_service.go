// FileName: service/position_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jobse/job_search/constants"
	"github.com/jobse/job_search/internal/models"
	"github.com/jobse/job_search/internal/repositories"
	"go.uber.org/zap"
)

// ErrInvalidRatingScore 表示评分超出合法区间 [0, 5]。
var ErrInvalidRatingScore = fmt.Errorf("评分必须介于 %.0f 和 %.0f 之间", constants.MinRatingScore, constants.MaxRatingScore)

// backgroundOpTimeout 是脱离请求生命周期的后台操作（标签计数、浏览量写回）的超时。
const backgroundOpTimeout = 5 * time.Second

// PositionService 封装职位侧的业务编排：搜索结果的公司信息补全、
// 浏览量与评分的演化、标签热度的旁路记录。
type PositionService struct {
	positionRepo repositories.PositionRepository
	companyRepo  repositories.CompanyRepository
	tagService   *TagService
	logger       *zap.Logger
}

// NewPositionService 创建 PositionService 实例。
func NewPositionService(
	positionRepo repositories.PositionRepository,
	companyRepo repositories.CompanyRepository,
	tagService *TagService,
	logger *zap.Logger,
) *PositionService {
	if positionRepo == nil || companyRepo == nil || tagService == nil {
		logger.Fatal("创建 PositionService 失败：依赖未初始化")
	}
	return &PositionService{
		positionRepo: positionRepo,
		companyRepo:  companyRepo,
		tagService:   tagService,
		logger:       logger,
	}
}

// Search 执行参数化职位搜索并补全结果中涉及的公司信息。
//
// 查询携带的标签会旁路记入热度统计：记录动作在独立的 goroutine 中执行，
// 持有自己的超时上下文（请求返回后仍可完成），失败只记日志，
// 决不影响搜索结果的返回。
func (s *PositionService) Search(ctx context.Context, query models.PositionQuery) (*models.PositionQueryRes, error) {
	if len(query.Tags) > 0 {
		tags := make([]string, len(query.Tags))
		copy(tags, query.Tags)
		go func() {
			bgCtx, cancel := context.WithTimeout(context.Background(), backgroundOpTimeout)
			defer cancel()
			s.tagService.RecordTagMentions(bgCtx, tags)
		}()
	}

	list, err := s.positionRepo.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	return &models.PositionQueryRes{
		PositionList: *list,
		Companies:    s.collectCompanies(ctx, list.Positions),
	}, nil
}

// collectCompanies 为一页职位结果收集去重后的公司信息。
// 同一公司在页内只查一次；查询失败的公司记入 miss 集合且本次请求内不再重试，
// 结果中直接缺席（降级），调用方拿不到该公司的条目。
// 返回的公司信息均已剥除描述正文。
func (s *PositionService) collectCompanies(ctx context.Context, positions []models.PositionInfo) map[string]*models.Company {
	companies := make(map[string]*models.Company)
	misses := make(map[string]struct{})

	for _, info := range positions {
		companyID := info.Position.CompanyID
		if companyID == "" {
			continue
		}
		if _, ok := companies[companyID]; ok {
			continue
		}
		if _, ok := misses[companyID]; ok {
			continue
		}

		company, err := s.companyRepo.Get(ctx, companyID)
		if err != nil {
			s.logger.Warn("补全公司信息失败，该公司将在响应中缺席",
				zap.String("company_id", companyID), zap.Error(err))
			misses[companyID] = struct{}{}
			continue
		}
		// 列表页不需要公司描述正文，剥除以控制响应体积。
		company.Description = ""
		companies[companyID] = company
	}
	return companies
}

// Detail 获取职位详情：浏览量加一后整体写回，返回加一后的值。
//
// 写回是 fire-and-forget 的：读到文档即可响应用户，浏览量落库失败
// 只损失一次计数。公司信息获取失败时 Company 为 nil（降级返回）。
func (s *PositionService) Detail(ctx context.Context, id string) (*models.PositionDetail, error) {
	position, err := s.positionRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	position.Views++
	updated := *position
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), backgroundOpTimeout)
		defer cancel()
		if err := s.positionRepo.Update(bgCtx, id, &updated); err != nil {
			s.logger.Warn("写回职位浏览量失败", zap.String("document_id", id), zap.Error(err))
		}
	}()

	detail := &models.PositionDetail{Position: *position}
	if position.CompanyID != "" {
		company, err := s.companyRepo.Get(ctx, position.CompanyID)
		if err != nil {
			s.logger.Warn("获取职位所属公司失败，详情中公司信息缺席",
				zap.String("company_id", position.CompanyID), zap.Error(err))
		} else {
			detail.Company = company
		}
	}
	return detail, nil
}

// Rate 提交对职位的一次评分，返回更新后的平均评分。
//
// 评分以浏览量为权重做增量平均：views > 0 时
// rating = (rating*(views-1) + score) / views，否则直接取 score。
// 浏览量与评分的更新彼此解耦，评分到达时使用文档当时的浏览量快照，
// 因此该公式假设评分紧随一次浏览之后——这是既有数据的既定口径。
// 写回是同步的：评分是用户的显式动作，丢失不可接受。
func (s *PositionService) Rate(ctx context.Context, id string, score float64) (float64, error) {
	if score < constants.MinRatingScore || score > constants.MaxRatingScore {
		return 0, ErrInvalidRatingScore
	}

	position, err := s.positionRepo.Get(ctx, id)
	if err != nil {
		return 0, err
	}

	if position.Views > 0 {
		position.Rating = (position.Rating*float64(position.Views-1) + score) / float64(position.Views)
	} else {
		position.Rating = score
	}

	if err := s.positionRepo.Update(ctx, id, position); err != nil {
		return 0, err
	}
	s.logger.Info("职位评分已更新",
		zap.String("document_id", id),
		zap.Float64("score", score),
		zap.Float64("new_rating", position.Rating),
	)
	return position.Rating, nil
}

// Relevant 返回与指定标题相关的职位列表（排除当前职位自身），
// 并补全涉及的公司信息。
func (s *PositionService) Relevant(ctx context.Context, query models.RelevantPositionQuery) (*models.PositionQueryRes, error) {
	list, err := s.positionRepo.SearchRelevant(ctx, query)
	if err != nil {
		return nil, err
	}
	return &models.PositionQueryRes{
		PositionList: *list,
		Companies:    s.collectCompanies(ctx, list.Positions),
	}, nil
}

// ListByCompany 按公司列出职位，按更新时间降序分页。
func (s *PositionService) ListByCompany(ctx context.Context, companyID string, start, limit int) (*models.PositionInfoList, error) {
	return s.positionRepo.SearchByCompany(ctx, companyID, start, limit)
}

// Suggest 返回职位标题的输入联想。关键字不能为空。
func (s *PositionService) Suggest(ctx context.Context, keyword string) ([]models.PositionSuggestion, error) {
	if keyword == "" {
		return nil, fmt.Errorf("联想关键字不能为空")
	}
	return s.positionRepo.Suggest(ctx, keyword)
}
