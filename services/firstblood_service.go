// file: services/firstblood_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"CYBERCOM/config"
	"CYBERCOM/database"
	"CYBERCOM/models"
	"CYBERCOM/utils"
	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// FirstBloodEngine 一血判定引擎。
//
// 进程启动时构造一次，所有调用方持同一个实例；
// 内部没有可变状态，锁是协调原语而不是全局变量。
type FirstBloodEngine struct {
	cfg    *config.Config
	cache  *utils.SignedCache
	locker database.AdvisoryLocker
}

func NewFirstBloodEngine(cfg *config.Config, cache *utils.SignedCache, locker database.AdvisoryLocker) *FirstBloodEngine {
	return &FirstBloodEngine{cfg: cfg, cache: cache, locker: locker}
}

func firstBloodCacheKey(challengeID uint32) string {
	return fmt.Sprintf("cybercom:first_blood_claimed:%d", challengeID)
}

// OnSolveInserted 由提交管道在解题事实入库的同一事务内同步调用。
//
// 契约（must not fail）：本函数不返回错误、不 panic，
// 任何内部失败只记日志，绝不回滚调用方的提交事务。
// 延迟预算约 15ms：签名缓存短路 → 咨询锁 → 存量检查 →
// 时间戳裁决 → 插入（唯一索引兜底）→ 刷新缓存提示。
//
// 平局规则：时间戳最早者胜；时间戳完全相同时 user_id 小者胜。
// 这是刻意保留的竞赛语义，不是待修的缺陷。
func (e *FirstBloodEngine) OnSolveInserted(tx *gorm.DB, sub *models.Submission) {
	if !e.cfg.FirstBloodEnabled || !sub.IsCorrect() {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("[FIRST BLOOD ERROR] panic recovered (solve transaction unaffected): %v", r)
		}
	}()

	ctx := context.Background()
	cacheKey := firstBloodCacheKey(sub.ChallengeID)
	ttl := time.Duration(e.cfg.FirstBloodCacheTTL) * time.Second

	// 第一步：签名缓存提示。命中且验签通过说明此题已决出，
	// 直接返回。这只是省掉锁和查询的捷径，正确性不依赖它。
	if val, ok := e.cache.Get(ctx, cacheKey); ok && val == "1" {
		return
	}

	// 第二步：按题目获取命名咨询锁，10 秒超时。
	// 拿不到就放弃本次判定——极端争用下漏判可接受，
	// 唯一索引仍然挡住重复；错判不可接受。
	lockName := database.FirstBloodLockName(sub.ChallengeID)
	if !e.locker.Acquire(tx, lockName, 10) {
		log.Printf("[FIRST BLOOD WARNING] advisory lock timeout for challenge %d, skipping detection", sub.ChallengeID)
		return
	}
	defer e.locker.Release(tx, lockName)

	// 第三步：锁内检查是否已有一血记录
	var existing models.FirstBloodRecord
	err := tx.Where("challenge_id = ?", sub.ChallengeID).First(&existing).Error
	if err == nil {
		e.cache.Set(ctx, cacheKey, "1", ttl)
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("[FIRST BLOOD ERROR] existing record query failed: %v", err)
		return
	}

	// 第四步：时间戳裁决。存在更早的正确提交，
	// 或同一时刻但 user_id 更小的提交，则当前提交不是一血。
	var earlier models.Submission
	err = tx.Where("challenge_id = ? AND type = ? AND id <> ?", sub.ChallengeID, models.SubmissionCorrect, sub.ID).
		Where("submitted_at < ? OR (submitted_at = ? AND user_id < ?)", sub.SubmittedAt, sub.SubmittedAt, sub.UserID).
		Order("submitted_at asc, user_id asc").
		First(&earlier).Error
	if err == nil {
		e.cache.Set(ctx, cacheKey, "1", ttl)
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("[FIRST BLOOD ERROR] tie-break query failed: %v", err)
		return
	}

	// 第五步：当前提交就是一血，计算威望并插入
	var challenge models.Challenge
	var challengeValue uint
	if err := tx.Select("value").First(&challenge, sub.ChallengeID).Error; err == nil {
		challengeValue = challenge.Value
	}
	prestige := CalculatePrestigeScore(challengeValue)

	userID := sub.UserID
	record := models.FirstBloodRecord{
		SubmissionID:  sub.ID,
		ChallengeID:   sub.ChallengeID,
		UserID:        &userID,
		TeamID:        sub.TeamID,
		PrestigeScore: prestige,
		Timestamp:     sub.SubmittedAt,
	}

	if err := tx.Create(&record).Error; err != nil {
		if isDuplicateKeyErr(err) {
			// 并发对手先提交成功，良性落败，非错误
			log.Printf("[FIRST BLOOD INFO] concurrent winner already committed for challenge %d", sub.ChallengeID)
			e.cache.Set(ctx, cacheKey, "1", ttl)
			return
		}
		log.Printf("[FIRST BLOOD ERROR] insert failed: %v", err)
		return
	}

	// 第六步：刷新缓存提示为已决出
	e.cache.Set(ctx, cacheKey, "1", ttl)

	log.Printf("[FIRST BLOOD] challenge %d claimed by user %d (team %v), prestige %d, timestamp %s",
		sub.ChallengeID, sub.UserID, sub.TeamID, prestige, sub.SubmittedAt.Format(time.RFC3339Nano))
}

// CalculatePrestigeScore 威望 = 题目分值 × 1.5；
// 动态计分题分值为 0 时按保底 100 分计算。
func CalculatePrestigeScore(challengeValue uint) uint {
	if challengeValue == 0 {
		challengeValue = 100
	}
	return uint(float64(challengeValue) * 1.5)
}

// isDuplicateKeyErr 判定唯一索引冲突。
// MySQL 下按 1062 错误码，其它方言按报错文本兜底。
func isDuplicateKeyErr(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
