// FileName: repositories/mysql_records.go
package repositories

import (
	"context"
	"fmt"

	"github.com/jobse/job_search/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RecordRepository 定义权威 MySQL 库中待同步记录的访问操作。
// 采集端只写入、同步协调器只读取并翻转 uploaded 标志，两侧通过该标志解耦。
type RecordRepository interface {
	// UnsyncedCompanies 返回至多 limit 条尚未同步的公司记录。
	UnsyncedCompanies(ctx context.Context, limit int) ([]models.CompanyRecord, error)
	// UnsyncedPositions 返回至多 limit 条尚未同步且数据完整
	// （company_id 与 tags 均非 NULL）的职位记录。
	UnsyncedPositions(ctx context.Context, limit int) ([]models.PositionRecord, error)
	// MarkCompaniesSynced 批量把指定公司记录标记为已同步。
	MarkCompaniesSynced(ctx context.Context, ids []string) error
	// MarkPositionsSynced 批量把指定职位记录标记为已同步。
	MarkPositionsSynced(ctx context.Context, urls []string) error
}

type mysqlRecordRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewRecordRepository 创建 RecordRepository 的 gorm 实现。
func NewRecordRepository(db *gorm.DB, logger *zap.Logger) RecordRepository {
	if db == nil {
		logger.Fatal("创建 RecordRepository 失败：数据库连接未初始化")
	}
	return &mysqlRecordRepository{db: db, logger: logger}
}

func (r *mysqlRecordRepository) UnsyncedCompanies(ctx context.Context, limit int) ([]models.CompanyRecord, error) {
	var records []models.CompanyRecord
	err := r.db.WithContext(ctx).
		Where("uploaded = ?", false).
		Limit(limit).
		Find(&records).Error
	if err != nil {
		r.logger.Error("查询待同步公司记录失败", zap.Error(err))
		return nil, fmt.Errorf("查询待同步公司记录失败: %w", err)
	}
	return records, nil
}

func (r *mysqlRecordRepository) UnsyncedPositions(ctx context.Context, limit int) ([]models.PositionRecord, error) {
	// 采集端分多步落库，company_id/tags 为 NULL 的行尚未补全，
	// 留在表里等下一轮，而不是作为坏数据同步出去。
	var records []models.PositionRecord
	err := r.db.WithContext(ctx).
		Where("uploaded = ? AND company_id IS NOT NULL AND tags IS NOT NULL", false).
		Limit(limit).
		Find(&records).Error
	if err != nil {
		r.logger.Error("查询待同步职位记录失败", zap.Error(err))
		return nil, fmt.Errorf("查询待同步职位记录失败: %w", err)
	}
	return records, nil
}

func (r *mysqlRecordRepository) MarkCompaniesSynced(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Model(&models.CompanyRecord{}).
		Where("id IN ?", ids).
		Update("uploaded", true).Error
	if err != nil {
		r.logger.Error("批量标记公司记录已同步失败", zap.Int("count", len(ids)), zap.Error(err))
		return fmt.Errorf("批量标记公司记录已同步失败: %w", err)
	}
	return nil
}

func (r *mysqlRecordRepository) MarkPositionsSynced(ctx context.Context, urls []string) error {
	if len(urls) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Model(&models.PositionRecord{}).
		Where("url IN ?", urls).
		Update("uploaded", true).Error
	if err != nil {
		r.logger.Error("批量标记职位记录已同步失败", zap.Int("count", len(urls)), zap.Error(err))
		return fmt.Errorf("批量标记职位记录已同步失败: %w", err)
	}
	return nil
}
