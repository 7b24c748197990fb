package service

import (
	"context"
	"testing"
	"time"

	"github.com/jobse/job_search/constants"
	"github.com/jobse/job_search/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTagService_RecordTagMentions(t *testing.T) {
	hotTagRepo := newFakeHotTagRepo()
	svc := NewTagService(hotTagRepo, zap.NewNop())

	svc.RecordTagMentions(context.Background(), []string{"外企", "高福利", "外企"})

	assert.Equal(t, 2, hotTagRepo.counts["外企"], "同一请求内重复提及也逐次计数")
	assert.Equal(t, 1, hotTagRepo.counts["高福利"])
}

func TestTagService_RecordTagMentions_SkipsEmpty(t *testing.T) {
	hotTagRepo := newFakeHotTagRepo()
	svc := NewTagService(hotTagRepo, zap.NewNop())

	svc.RecordTagMentions(context.Background(), []string{"", "外企"})

	assert.NotContains(t, hotTagRepo.counts, "")
	assert.Equal(t, 1, hotTagRepo.counts["外企"])
}

func TestTagService_HotTags_WindowBoundary(t *testing.T) {
	hotTagRepo := newFakeHotTagRepo()
	hotTagRepo.tags = []models.HotTag{{TagName: "外企", Count: 3}}
	svc := NewTagService(hotTagRepo, zap.NewNop())

	fixed := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	// 包装仓库以捕获窗口起点。
	capture := &windowCapturingRepo{fakeHotTagRepo: hotTagRepo}
	svc.hotTagRepo = capture

	tags, err := svc.HotTags(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, tags, 1)
	assert.Equal(t, fixed.Add(-constants.HotTagWindow), capture.since, "窗口起点应为当前时间减 30 天")
}

type windowCapturingRepo struct {
	*fakeHotTagRepo
	since time.Time
}

func (w *windowCapturingRepo) GetHotTags(ctx context.Context, since time.Time, limit int) ([]models.HotTag, error) {
	w.since = since
	return w.fakeHotTagRepo.GetHotTags(ctx, since, limit)
}
