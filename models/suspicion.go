// file: models/suspicion.go
package models

import (
	"time"

	"gorm.io/datatypes"
)

type DetectionType string

const (
	DetectionSameOrigin      DetectionType = "same_origin_temporal"
	DetectionDuplicateWrong  DetectionType = "duplicate_wrong_answer"
	DetectionSimilarClient   DetectionType = "similar_client_signature"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

type Verdict string

const (
	VerdictInnocent   Verdict = "innocent"
	VerdictSuspicious Verdict = "suspicious"
	VerdictConfirmed  Verdict = "confirmed"
)

// ValidVerdict 审核接口只接受固定枚举
func ValidVerdict(v string) bool {
	switch Verdict(v) {
	case VerdictInnocent, VerdictSuspicious, VerdictConfirmed:
		return true
	}
	return false
}

// SuspicionFinding 协作作弊嫌疑记录，仅作情报、不做自动处罚。
//
// Evidence 存入前必须经过脱敏：不允许出现原始 IP、
// 原始客户端标识或原始提交文本。
// Verdict 三个字段是便捷副本，真实历史以审计表为准。
type SuspicionFinding struct {
	ID              uint64         `gorm:"primarykey"`
	UserID1         uint32         `gorm:"not null;index"`
	UserID2         *uint32        `gorm:"index"` // 单用户模式（如多账号）可为空
	ChallengeID     uint32         `gorm:"not null;index"`
	DetectionType   DetectionType  `gorm:"type:varchar(64);not null"`
	ConfidenceScore float64        `gorm:"not null"`
	RiskLevel       RiskLevel      `gorm:"type:varchar(16);not null;index;index:idx_suspicion_review,priority:2"`
	Evidence        datatypes.JSON `gorm:"not null"`
	Verdict         *Verdict       `gorm:"type:varchar(32);index;index:idx_suspicion_review,priority:1"` // null = 待审核
	ReviewedAt      *time.Time     `gorm:"type:datetime(6)"`
	ReviewedBy      *uint32
	CreatedAt       time.Time `gorm:"type:datetime(6);not null;index"`
}

func (SuspicionFinding) TableName() string {
	return "cybercom_suspicion"
}
