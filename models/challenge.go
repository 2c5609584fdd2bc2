// file: models/challenge.go
package models

import (
	"time"
)

type ChallengeState string

const (
	ChallengeStateVisible ChallengeState = "visible"
	ChallengeStateHidden  ChallengeState = "hidden"
)

// Challenge 平台题目表的只读视图，情报层仅用到分值与可见性。
// 动态计分题目 Value 可能为 0，威望计算时按保底值处理。
type Challenge struct {
	ID            uint32         `gorm:"primarykey"`
	ChallengeName string         `gorm:"size:100;not null"`
	Value         uint           `gorm:"not null;default:0"`
	State         ChallengeState `gorm:"type:varchar(16);default:'hidden'"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Challenge) TableName() string {
	return "cybercom_challenge"
}
