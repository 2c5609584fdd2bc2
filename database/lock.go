// file: database/lock.go
package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AdvisoryLocker 命名咨询锁的抽象。
//
// MySQL 下用 GET_LOCK/RELEASE_LOCK 串行化同一题目的一血判定；
// 不支持的存储退化为 NoopLocker，只靠唯一索引兜底——
// 宁可漏判（可接受），不可错判或重复（不可接受）。
type AdvisoryLocker interface {
	// Acquire 在 tx 所在连接上获取命名锁，返回是否成功。
	// 超时返回 false 而不是错误：调用方应放弃本次判定。
	Acquire(tx *gorm.DB, name string, timeoutSecs int) bool
	// Release 释放命名锁；连接关闭或事务结束时 MySQL 也会自动释放。
	Release(tx *gorm.DB, name string)
}

// DetectLocker 按方言做能力探测，启动时调用一次。
func DetectLocker(db *gorm.DB) AdvisoryLocker {
	if db.Dialector.Name() == "mysql" {
		return &MySQLLocker{}
	}
	log.Printf("[LOCK] dialect %q has no advisory lock support, falling back to unique-constraint-only mode", db.Dialector.Name())
	return &NoopLocker{}
}

// MySQLLocker 基于 GET_LOCK 的真实现。锁与连接绑定，
// 必须在持有事务的同一个 *gorm.DB 上 Acquire/Release。
type MySQLLocker struct{}

func (l *MySQLLocker) Acquire(tx *gorm.DB, name string, timeoutSecs int) bool {
	var acquired *int
	err := tx.Raw("SELECT GET_LOCK(?, ?)", name, timeoutSecs).Scan(&acquired).Error
	if err != nil {
		log.Printf("[LOCK] GET_LOCK %s failed: %v", name, err)
		return false
	}
	// GET_LOCK: 1=成功 0=超时 NULL=错误
	return acquired != nil && *acquired == 1
}

func (l *MySQLLocker) Release(tx *gorm.DB, name string) {
	var released *int
	if err := tx.Raw("SELECT RELEASE_LOCK(?)", name).Scan(&released).Error; err != nil {
		// 连接断开时锁已自动释放，记录即可
		log.Printf("[LOCK] RELEASE_LOCK %s failed: %v", name, err)
	}
}

// NoopLocker 无锁退化实现：Acquire 恒成功，正确性完全由唯一索引保证。
type NoopLocker struct{}

func (l *NoopLocker) Acquire(tx *gorm.DB, name string, timeoutSecs int) bool { return true }
func (l *NoopLocker) Release(tx *gorm.DB, name string)                       {}

// FirstBloodLockName 一血咨询锁的命名规则，按题目分片
func FirstBloodLockName(challengeID uint32) string {
	return fmt.Sprintf("cybercom_first_blood_%d", challengeID)
}

// WithRowLock 在支持 SELECT ... FOR UPDATE 的方言上附加行锁。
// sqlite 单写者语义下不需要也不支持该子句。
func WithRowLock(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
