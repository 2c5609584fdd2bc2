// file: services/audit_service.go
package services

import (
	"errors"
	"log"
	"time"

	"CYBERCOM/models"
	"gorm.io/gorm"
)

var ErrFindingNotFound = errors.New("finding not found")

// AuditTrail 审核裁决的不可变审计链。
//
// 记录裁决 = 纯插入一条新审计行，然后刷新嫌疑记录上的便捷副本。
// 历史与争议仲裁以审计表为准，便捷字段只为列表查询提速。
type AuditTrail struct {
	db *gorm.DB
}

func NewAuditTrail(db *gorm.DB) *AuditTrail {
	return &AuditTrail{db: db}
}

// RecordVerdict 落一条裁决。审计行与便捷字段更新同事务：
// 审计写不进去整个请求就必须失败，不能出现"报告成功但无记录"。
func (a *AuditTrail) RecordVerdict(findingID uint64, verdict models.Verdict, reviewerID uint32, reviewerIP, notes string) (*models.VerdictAuditEntry, error) {
	var entry models.VerdictAuditEntry

	err := a.db.Transaction(func(tx *gorm.DB) error {
		var finding models.SuspicionFinding
		if err := tx.First(&finding, findingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFindingNotFound
			}
			return err
		}

		now := time.Now()
		entry = models.VerdictAuditEntry{
			FindingID:  findingID,
			Verdict:    verdict,
			ReviewerID: reviewerID,
			ReviewerIP: reviewerIP,
			Notes:      notes,
			CreatedAt:  now,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		// 便捷副本始终反映最近一次裁决
		finding.Verdict = &verdict
		finding.ReviewedAt = &now
		finding.ReviewedBy = &reviewerID
		return tx.Save(&finding).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[AUDIT] verdict recorded: finding=%d verdict=%s reviewer=%d ip=%s entry=%d",
		findingID, verdict, reviewerID, reviewerIP, entry.ID)
	return &entry, nil
}

// History 按创建顺序返回某条嫌疑的全部裁决历史
func (a *AuditTrail) History(findingID uint64, limit int) ([]models.VerdictAuditEntry, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	var entries []models.VerdictAuditEntry
	err := a.db.Where("finding_id = ?", findingID).
		Order("created_at asc, id asc").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
