// FileName: service/sync_service.go
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jobse/job_search/config"
	"github.com/jobse/job_search/constants"
	"github.com/jobse/job_search/internal/pkg/hashutil"
	"github.com/jobse/job_search/internal/repositories"
	"go.uber.org/zap"
)

// SyncService 是 MySQL → Elasticsearch 的增量同步协调器。
//
// 后台循环按固定间隔扫描权威库中 uploaded=false 的记录，逐行转换并写入
// 搜索索引，一轮结束后把成功的行批量标记为已同步。单行失败彼此隔离：
// 失败的行保持未同步状态，留待下一轮重试，不影响同批其余行。
// 公司先于职位同步——职位文档引用公司 ID，顺序保证引用可解析的概率。
type SyncService struct {
	recordRepo   repositories.RecordRepository
	positionRepo repositories.PositionRepository
	companyRepo  repositories.CompanyRepository
	cfg          config.SyncConfig
	logger       *zap.Logger

	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	startOnce  sync.Once
	closeOnce  sync.Once
}

// NewSyncService 创建同步协调器实例。
func NewSyncService(
	recordRepo repositories.RecordRepository,
	positionRepo repositories.PositionRepository,
	companyRepo repositories.CompanyRepository,
	cfg config.SyncConfig,
	logger *zap.Logger,
) *SyncService {
	if recordRepo == nil || positionRepo == nil || companyRepo == nil {
		logger.Fatal("创建 SyncService 失败：依赖未初始化")
	}
	return &SyncService{
		recordRepo:   recordRepo,
		positionRepo: positionRepo,
		companyRepo:  companyRepo,
		cfg:          cfg,
		logger:       logger,
	}
}

// Start 启动后台同步循环。首轮扫描前等待 InitialDelay，给依赖服务留出
// 就绪时间；此后每 Interval 执行一轮。重复调用只有第一次生效。
func (s *SyncService) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		loopCtx, cancel := context.WithCancel(ctx)
		s.cancelFunc = cancel

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.logger.Info("同步协调器已启动",
				zap.Duration("initial_delay", s.cfg.InitialDelay),
				zap.Duration("interval", s.cfg.Interval),
			)

			select {
			case <-time.After(s.cfg.InitialDelay):
			case <-loopCtx.Done():
				s.logger.Info("同步协调器在首轮扫描前被取消")
				return
			}

			ticker := time.NewTicker(s.cfg.Interval)
			defer ticker.Stop()

			for {
				s.runCycle(loopCtx)
				select {
				case <-ticker.C:
				case <-loopCtx.Done():
					s.logger.Info("同步协调器收到停止信号，退出循环")
					return
				}
			}
		}()
	})
}

// Close 停止同步循环并等待当前轮次结束，最多等待 30 秒。
func (s *SyncService) Close() error {
	var err error
	s.closeOnce.Do(func() {
		if s.cancelFunc == nil {
			return
		}
		s.logger.Info("正在停止同步协调器...")
		s.cancelFunc()

		done := make(chan struct{})
		go func() {
			s.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
			s.logger.Info("同步协调器已停止")
		case <-time.After(30 * time.Second):
			err = fmt.Errorf("等待同步协调器停止超时")
			s.logger.Error("等待同步协调器停止超时")
		}
	})
	return err
}

// runCycle 执行一轮完整的同步：先公司后职位。
func (s *SyncService) runCycle(ctx context.Context) {
	s.syncCompanies(ctx)
	if ctx.Err() != nil {
		return
	}
	s.syncPositions(ctx)
}

// indexWithRetry 以指数退避重试单个文档的写入。
// 重试只吸收文档库侧的瞬时故障；转换类错误不会走到这里。
func (s *SyncService) indexWithRetry(ctx context.Context, op func() error) error {
	bo := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), s.cfg.MaxRetryAttempts),
		ctx,
	)
	return backoff.Retry(op, bo)
}

// syncCompanies 同步一批公司记录。公司记录的行主键即文档 ID。
func (s *SyncService) syncCompanies(ctx context.Context) {
	records, err := s.recordRepo.UnsyncedCompanies(ctx, s.cfg.CompanyBatchSize)
	if err != nil {
		s.logger.Error("扫描待同步公司记录失败，本轮跳过公司同步", zap.Error(err))
		return
	}
	if len(records) == 0 {
		return
	}
	s.logger.Info("开始同步公司记录", zap.Int("batch_size", len(records)))

	synced := make([]string, 0, len(records))
	for i := range records {
		if ctx.Err() != nil {
			break
		}
		record := &records[i]

		doc, err := record.ToDocument()
		if err != nil {
			s.logger.Error("公司记录转换失败，该行保持未同步状态",
				zap.String("company_id", record.ID), zap.Error(err))
			continue
		}

		err = s.indexWithRetry(ctx, func() error {
			return s.companyRepo.Index(ctx, record.ID, &doc)
		})
		if err != nil {
			s.logger.Error("公司文档写入失败，该行保持未同步状态",
				zap.String("company_id", record.ID), zap.Error(err))
			continue
		}
		synced = append(synced, record.ID)
	}

	if err := s.recordRepo.MarkCompaniesSynced(ctx, synced); err != nil {
		// 标记失败的行下一轮会被重复写入。写入以行主键为文档 ID，
		// 重复写入是幂等的整体替换，不会产生重复文档。
		s.logger.Error("批量标记公司记录已同步失败", zap.Error(err))
		return
	}
	s.logger.Info("公司记录同步完成",
		zap.Int("scanned", len(records)),
		zap.Int("synced", len(synced)),
	)
}

// syncPositions 同步一批职位记录。
// 文档 ID 是组合标题与来源 URL 的内容哈希：同一职位重复采集时
// 哈希不变，写入退化为幂等替换。
func (s *SyncService) syncPositions(ctx context.Context) {
	records, err := s.recordRepo.UnsyncedPositions(ctx, s.cfg.PositionBatchSize)
	if err != nil {
		s.logger.Error("扫描待同步职位记录失败，本轮跳过职位同步", zap.Error(err))
		return
	}
	if len(records) == 0 {
		return
	}
	s.logger.Info("开始同步职位记录", zap.Int("batch_size", len(records)))

	synced := make([]string, 0, len(records))
	for i := range records {
		if ctx.Err() != nil {
			break
		}
		record := &records[i]

		doc, err := record.ToDocument()
		if err != nil {
			s.logger.Error("职位记录转换失败，该行保持未同步状态",
				zap.String("url", record.URL), zap.Error(err))
			continue
		}
		// 新文档的浏览量从零开始，评分给满分基准，由后续评分逐步校准。
		doc.Views = 0
		doc.Rating = constants.InitialPositionRating

		docID := hashutil.PositionDocumentID(doc.Title, record.URL)
		err = s.indexWithRetry(ctx, func() error {
			return s.positionRepo.Index(ctx, docID, &doc)
		})
		if err != nil {
			s.logger.Error("职位文档写入失败，该行保持未同步状态",
				zap.String("url", record.URL), zap.String("document_id", docID), zap.Error(err))
			continue
		}
		synced = append(synced, record.URL)
	}

	if err := s.recordRepo.MarkPositionsSynced(ctx, synced); err != nil {
		s.logger.Error("批量标记职位记录已同步失败", zap.Error(err))
		return
	}
	s.logger.Info("职位记录同步完成",
		zap.Int("scanned", len(records)),
		zap.Int("synced", len(synced)),
	)
}
