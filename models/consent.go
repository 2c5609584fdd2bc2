// file: models/consent.go
package models

import (
	"time"
)

// ConsentRecord 用户分析授权记录，每用户一条，默认不授权（opt-in）。
//
// 作为闸门使用时必须在事务内加行锁读取，
// 防止撤回操作与嫌疑记录创建之间出现 check-then-act 窗口。
type ConsentRecord struct {
	ID          uint64     `gorm:"primarykey"`
	UserID      uint32     `gorm:"not null;uniqueIndex"`
	Consented   bool       `gorm:"not null;default:false"`
	ConsentedAt *time.Time `gorm:"type:datetime(6)"`
	WithdrawnAt *time.Time `gorm:"type:datetime(6)"`
	LastUpdated time.Time  `gorm:"type:datetime(6);not null;autoUpdateTime;index"`
}

func (ConsentRecord) TableName() string {
	return "cybercom_user_consent"
}
