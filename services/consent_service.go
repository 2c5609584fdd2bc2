// file: services/consent_service.go
package services

import (
	"errors"
	"log"
	"time"

	"CYBERCOM/database"
	"CYBERCOM/models"
	"gorm.io/gorm"
)

// ConsentLedger 用户分析授权台账。默认不授权（opt-in）。
//
// 作为闸门使用时必须走 LockedConsent：在创建嫌疑记录的事务内
// 对授权行加锁读取并持有到事务结束，封死撤回与创建之间的竞态窗口。
type ConsentLedger struct {
	db *gorm.DB
}

func NewConsentLedger(db *gorm.DB) *ConsentLedger {
	return &ConsentLedger{db: db}
}

// Grant 授予授权，首次调用时建行，之后原地更新
func (l *ConsentLedger) Grant(userID uint32) error {
	return l.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		var record models.ConsentRecord
		err := database.WithRowLock(tx).Where("user_id = ?", userID).First(&record).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			record = models.ConsentRecord{UserID: userID, Consented: true, ConsentedAt: &now}
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
			log.Printf("[CONSENT] user %d granted consent", userID)
			return nil
		}
		if err != nil {
			return err
		}

		record.Consented = true
		record.ConsentedAt = &now
		record.WithdrawnAt = nil
		if err := tx.Save(&record).Error; err != nil {
			return err
		}
		log.Printf("[CONSENT] user %d granted consent", userID)
		return nil
	})
}

// Withdraw 撤回授权。撤回后的数据删除由保留策略任务负责。
func (l *ConsentLedger) Withdraw(userID uint32) error {
	return l.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		var record models.ConsentRecord
		err := database.WithRowLock(tx).Where("user_id = ?", userID).First(&record).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			record = models.ConsentRecord{UserID: userID, Consented: false, WithdrawnAt: &now}
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
			log.Printf("[CONSENT] user %d withdrew consent", userID)
			return nil
		}
		if err != nil {
			return err
		}

		record.Consented = false
		record.WithdrawnAt = &now
		if err := tx.Save(&record).Error; err != nil {
			return err
		}
		log.Printf("[CONSENT] user %d withdrew consent", userID)
		return nil
	})
}

// HasConsent 无锁快速查询，无记录视为未授权
func (l *ConsentLedger) HasConsent(userID uint32) bool {
	var record models.ConsentRecord
	err := l.db.Where("user_id = ?", userID).First(&record).Error
	if err != nil {
		return false
	}
	return record.Consented
}

// Status 返回用户当前的授权记录（可能为 nil）
func (l *ConsentLedger) Status(userID uint32) (*models.ConsentRecord, error) {
	var record models.ConsentRecord
	err := l.db.Where("user_id = ?", userID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// LockedConsent 在 tx 内加行锁读取授权状态。
// 行锁持有到 tx 结束，期间并发的撤回会阻塞；
// 返回 false 表示无记录或未授权，调用方应放弃创建。
func LockedConsent(tx *gorm.DB, userID uint32) (bool, error) {
	var record models.ConsentRecord
	err := database.WithRowLock(tx).Where("user_id = ?", userID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return record.Consented, nil
}
