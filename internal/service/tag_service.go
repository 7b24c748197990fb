// FileName: service/tag_service.go
package service

import (
	"context"
	"time"

	"github.com/jobse/job_search/constants"
	"github.com/jobse/job_search/internal/models"
	"github.com/jobse/job_search/internal/repositories"
	"go.uber.org/zap"
)

// TagService 维护搜索标签的热度统计。
type TagService struct {
	hotTagRepo repositories.HotTagRepository
	logger     *zap.Logger
	// now 可注入以便测试滑动窗口边界。
	now func() time.Time
}

// NewTagService 创建 TagService 实例。
func NewTagService(hotTagRepo repositories.HotTagRepository, logger *zap.Logger) *TagService {
	if hotTagRepo == nil {
		logger.Fatal("创建 TagService 失败：依赖未初始化")
	}
	return &TagService{
		hotTagRepo: hotTagRepo,
		logger:     logger,
		now:        time.Now,
	}
}

// RecordTagMentions 把一次搜索请求提及的标签逐个计入热度。
// 热度是旁路统计：单个标签计数失败只记日志，不向调用方返回错误，
// 也不影响同批其余标签的计数。
func (s *TagService) RecordTagMentions(ctx context.Context, tags []string) {
	now := s.now()
	for _, tag := range tags {
		if tag == "" {
			continue
		}
		if err := s.hotTagRepo.IncrementTag(ctx, tag, now); err != nil {
			s.logger.Warn("记录标签热度失败", zap.String("tag_name", tag), zap.Error(err))
		}
	}
}

// HotTags 返回滑动窗口（最近 30 天）内按提及次数降序的前 limit 个标签。
func (s *TagService) HotTags(ctx context.Context, limit int) ([]models.HotTag, error) {
	since := s.now().Add(-constants.HotTagWindow)
	return s.hotTagRepo.GetHotTags(ctx, since, limit)
}
