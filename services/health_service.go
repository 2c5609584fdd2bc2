// file: services/health_service.go
package services

import (
	"log"
	"time"

	"CYBERCOM/config"
	"CYBERCOM/models"
	"gorm.io/gorm"
)

// HealthService 题目健康监控：按周期给每道可见题目打质量快照。
//
// 评分规则：
//   - 基准 100 分
//   - 解题率 > 90%（过易）扣 20
//   - 解题率 < 5% 且尝试数 ≥ 10（过难）扣 30
//   - 尝试数 < 10（冷题）扣 15
//
// 状态分档：HEALTHY ≥ 70，UNDERPERFORMING ≥ 40，其余 BROKEN。
type HealthService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewHealthService(db *gorm.DB, cfg *config.Config) *HealthService {
	return &HealthService{db: db, cfg: cfg}
}

// HealthMetrics 一道题目的健康指标
type HealthMetrics struct {
	Solves      int64
	Attempts    int64
	SolveRate   float64
	HealthScore int
	Status      models.HealthStatus
}

// Calculate 统计并评分单个题目
func (h *HealthService) Calculate(challengeID uint32) (HealthMetrics, error) {
	var m HealthMetrics

	err := h.db.Model(&models.Submission{}).
		Where("challenge_id = ? AND type = ?", challengeID, models.SubmissionCorrect).
		Count(&m.Solves).Error
	if err != nil {
		return m, err
	}
	err = h.db.Model(&models.Submission{}).
		Where("challenge_id = ?", challengeID).
		Count(&m.Attempts).Error
	if err != nil {
		return m, err
	}

	if m.Attempts > 0 {
		m.SolveRate = float64(m.Solves) / float64(m.Attempts)
	}

	score := 100
	if m.SolveRate > 0.90 {
		score -= 20
	} else if m.SolveRate < 0.05 && m.Attempts >= 10 {
		score -= 30
	}
	if m.Attempts < 10 {
		score -= 15
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	m.HealthScore = score

	switch {
	case score >= 70:
		m.Status = models.HealthHealthy
	case score >= 40:
		m.Status = models.HealthUnderperforming
	default:
		m.Status = models.HealthBroken
	}
	return m, nil
}

// Snapshot 对全部可见题目各落一条快照，返回生成数量
func (h *HealthService) Snapshot() (int, error) {
	if !h.cfg.HealthEnabled {
		return 0, nil
	}

	var challenges []models.Challenge
	if err := h.db.Where("state <> ?", models.ChallengeStateHidden).Find(&challenges).Error; err != nil {
		return 0, err
	}

	created := 0
	now := time.Now()
	for _, ch := range challenges {
		m, err := h.Calculate(ch.ID)
		if err != nil {
			log.Printf("[HEALTH ERROR] challenge %d: %v", ch.ID, err)
			continue
		}

		snapshot := models.ChallengeHealthSnapshot{
			ChallengeID: ch.ID,
			Solves:      m.Solves,
			Attempts:    m.Attempts,
			SolveRate:   m.SolveRate,
			HealthScore: m.HealthScore,
			Status:      m.Status,
			Timestamp:   now,
		}
		if err := h.db.Create(&snapshot).Error; err != nil {
			log.Printf("[HEALTH ERROR] snapshot for challenge %d failed: %v", ch.ID, err)
			continue
		}
		created++

		if m.Status != models.HealthHealthy {
			log.Printf("[HEALTH] challenge %d (%s): %s (score=%d)", ch.ID, ch.ChallengeName, m.Status, m.HealthScore)
		}
	}
	return created, nil
}

// Latest 每道题目的最新快照（可按状态过滤）
func (h *HealthService) Latest(statusFilter string) ([]models.ChallengeHealthSnapshot, error) {
	sub := h.db.Model(&models.ChallengeHealthSnapshot{}).
		Select("challenge_id, MAX(timestamp) as max_ts").
		Group("challenge_id")

	var snapshots []models.ChallengeHealthSnapshot
	q := h.db.Model(&models.ChallengeHealthSnapshot{}).
		Joins("JOIN (?) latest ON cybercom_challenge_health.challenge_id = latest.challenge_id AND cybercom_challenge_health.timestamp = latest.max_ts", sub)
	if statusFilter != "" {
		q = q.Where("status = ?", models.HealthStatus(statusFilter))
	}
	err := q.Find(&snapshots).Error
	return snapshots, err
}

// History 单题的历史快照，新在前
func (h *HealthService) History(challengeID uint32, limit int) ([]models.ChallengeHealthSnapshot, error) {
	if limit <= 0 || limit > 1000 {
		limit = 24
	}
	var snapshots []models.ChallengeHealthSnapshot
	err := h.db.Where("challenge_id = ?", challengeID).
		Order("timestamp desc").
		Limit(limit).
		Find(&snapshots).Error
	return snapshots, err
}
