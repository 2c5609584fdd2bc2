// file: services/cleanup_service.go
package services

import (
	"log"
	"time"

	"CYBERCOM/config"
	"CYBERCOM/models"
	"gorm.io/gorm"
)

// CleanupService 数据保留策略执行者。
// 超过保留期的嫌疑记录和健康快照会被删除；
// 一血记录是永久荣誉，任何情况下不清理。
type CleanupService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewCleanupService(db *gorm.DB, cfg *config.Config) *CleanupService {
	return &CleanupService{db: db, cfg: cfg}
}

type CleanupResult struct {
	FindingsDeleted  int64
	SnapshotsDeleted int64
}

// Run 执行一次清理
func (c *CleanupService) Run() (CleanupResult, error) {
	var result CleanupResult
	cutoff := time.Now().AddDate(0, 0, -c.cfg.RetentionDays)

	err := c.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("created_at < ?", cutoff).Delete(&models.SuspicionFinding{})
		if res.Error != nil {
			return res.Error
		}
		result.FindingsDeleted = res.RowsAffected

		res = tx.Where("timestamp < ?", cutoff).Delete(&models.ChallengeHealthSnapshot{})
		if res.Error != nil {
			return res.Error
		}
		result.SnapshotsDeleted = res.RowsAffected
		return nil
	})
	if err != nil {
		return result, err
	}

	log.Printf("[CLEANUP] deleted %d findings, %d health snapshots (older than %d days)",
		result.FindingsDeleted, result.SnapshotsDeleted, c.cfg.RetentionDays)
	return result, nil
}
