// file: models/verdict_history.go
package models

import (
	"time"
)

// VerdictAuditEntry 审核裁决的不可变审计记录。
//
// 只增不改：每次裁决插入一条新行，同一嫌疑被审 N 次就有 N 条。
// 存储层触发器拒绝 UPDATE/DELETE（见 database/migrate.go），
// 不依赖应用层自觉。
type VerdictAuditEntry struct {
	ID         uint64  `gorm:"primarykey"`
	FindingID  uint64  `gorm:"not null;index"`
	Verdict    Verdict `gorm:"type:varchar(32);not null"`
	ReviewerID uint32  `gorm:"not null;index"`
	ReviewerIP string  `gorm:"size:46"` // 兼容 IPv6
	Notes      string  `gorm:"type:text"`
	CreatedAt  time.Time `gorm:"type:datetime(6);not null;index"`
}

func (VerdictAuditEntry) TableName() string {
	return "cybercom_verdict_history"
}
