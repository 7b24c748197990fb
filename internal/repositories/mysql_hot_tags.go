// FileName: repositories/mysql_hot_tags.go
package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jobse/job_search/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// HotTagRepository 定义标签热度的持久化操作。
type HotTagRepository interface {
	// IncrementTag 将标签计数加一（首次提及时创建，计数为 1）并刷新活跃时间。
	IncrementTag(ctx context.Context, tagName string, now time.Time) error
	// GetHotTags 返回滑动窗口内按计数降序的前 limit 个标签。
	GetHotTags(ctx context.Context, since time.Time, limit int) ([]models.HotTag, error)
}

type mysqlHotTagRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewHotTagRepository 创建 HotTagRepository 的 gorm 实现。
func NewHotTagRepository(db *gorm.DB, logger *zap.Logger) HotTagRepository {
	if db == nil {
		logger.Fatal("创建 HotTagRepository 失败：数据库连接未初始化")
	}
	return &mysqlHotTagRepository{db: db, logger: logger}
}

func (r *mysqlHotTagRepository) IncrementTag(ctx context.Context, tagName string, now time.Time) error {
	// 读-改-写放在同一事务里。并发搜索对同一标签计数时可能互相覆盖，
	// 热度是趋势指标，偶尔少计一次可以接受，不值得为它上行锁。
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tag models.HotTag
		err := tx.Where("tag_name = ?", tagName).First(&tag).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Create(&models.HotTag{
				TagName:    tagName,
				Count:      1,
				LastUpdate: now,
			}).Error
		case err != nil:
			return err
		default:
			return tx.Model(&models.HotTag{}).
				Where("tag_name = ?", tagName).
				Updates(map[string]interface{}{
					"count":       tag.Count + 1,
					"last_update": now,
				}).Error
		}
	})
	if err != nil {
		r.logger.Error("更新标签热度失败", zap.String("tag_name", tagName), zap.Error(err))
		return fmt.Errorf("更新标签 '%s' 热度失败: %w", tagName, err)
	}
	return nil
}

func (r *mysqlHotTagRepository) GetHotTags(ctx context.Context, since time.Time, limit int) ([]models.HotTag, error) {
	var tags []models.HotTag
	err := r.db.WithContext(ctx).
		Where("last_update >= ?", since).
		Order("count DESC").
		Limit(limit).
		Find(&tags).Error
	if err != nil {
		r.logger.Error("查询热门标签失败", zap.Error(err))
		return nil, fmt.Errorf("查询热门标签失败: %w", err)
	}
	return tags, nil
}
