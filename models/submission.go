// file: models/submission.go
package models

import (
	"time"
)

type SubmissionType string

const (
	SubmissionCorrect   SubmissionType = "correct"
	SubmissionIncorrect SubmissionType = "incorrect"
)

// Submission 对应平台提交表。由提交管道写入，情报层只读；
// 客户端标识与 IP 仅在检测流程内使用，落库前必须脱敏。
type Submission struct {
	ID              uint64         `gorm:"primarykey"`
	ChallengeID     uint32         `gorm:"not null;index;index:idx_sub_chal_date,priority:1"`
	UserID          uint32         `gorm:"not null;index"`
	TeamID          *uint32        `gorm:"index"`
	IP              string         `gorm:"size:46"`
	ClientSignature string         `gorm:"size:512"`
	Type            SubmissionType `gorm:"type:varchar(16);not null;default:'incorrect'"`
	ProvidedText    string         `gorm:"type:text"`
	SubmittedAt     time.Time      `gorm:"type:datetime(6);not null;index;index:idx_sub_chal_date,priority:2"`
}

func (Submission) TableName() string {
	return "cybercom_submission"
}

// IsCorrect 便捷判断：correct 类型即为解题事实（SolveFact）
func (s *Submission) IsCorrect() bool {
	return s.Type == SubmissionCorrect
}
