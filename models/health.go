// file: models/health.go
package models

import (
	"time"
)

type HealthStatus string

const (
	HealthHealthy         HealthStatus = "HEALTHY"
	HealthUnderperforming HealthStatus = "UNDERPERFORMING"
	HealthBroken          HealthStatus = "BROKEN"
)

// ChallengeHealthSnapshot 题目质量的周期快照，用于发现过易/过难/坏题。
type ChallengeHealthSnapshot struct {
	ID          uint64       `gorm:"primarykey"`
	ChallengeID uint32       `gorm:"not null;index;index:idx_health_chal_time,priority:1"`
	Solves      int64        `gorm:"not null;default:0"`
	Attempts    int64        `gorm:"not null;default:0"`
	SolveRate   float64      `gorm:"not null;default:0"`
	HealthScore int          `gorm:"not null;default:100"`
	Status      HealthStatus `gorm:"type:varchar(32);not null;default:'HEALTHY';index"`
	Timestamp   time.Time    `gorm:"type:datetime(6);not null;index;index:idx_health_chal_time,priority:2"`
}

func (ChallengeHealthSnapshot) TableName() string {
	return "cybercom_challenge_health"
}
