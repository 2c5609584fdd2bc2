// file: models/first_blood.go
package models

import (
	"time"
)

// FirstBloodRecord 一血威望记录，每道题至多一条。
//
// challenge_id 与 submission_id 上的唯一索引是并发兜底：
// 即使咨询锁不可用，数据库层也不允许出现第二条一血。
// 记录一经写入不再更新，威望分在写入时一次性算定。
type FirstBloodRecord struct {
	ID            uint64    `gorm:"primarykey"`
	SubmissionID  uint64    `gorm:"not null;uniqueIndex"`
	ChallengeID   uint32    `gorm:"not null;uniqueIndex"`
	UserID        *uint32   `gorm:"index"` // 队伍模式下可为空
	TeamID        *uint32   `gorm:"index"` // 个人模式下可为空
	PrestigeScore uint      `gorm:"not null"`
	Timestamp     time.Time `gorm:"type:datetime(6);not null;index"` // 拷贝自获胜提交
}

func (FirstBloodRecord) TableName() string {
	return "cybercom_first_blood"
}
