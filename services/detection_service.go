// file: services/detection_service.go
package services

import (
	"encoding/json"
	"log"
	"math"
	"strings"
	"time"

	"CYBERCOM/config"
	"CYBERCOM/models"
	"CYBERCOM/utils"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// 各信号对组合置信度的固定权重，总和不超过 1.0
const (
	WeightSameOrigin        = 0.4
	WeightDuplicateWrong    = 0.3
	WeightSimilarClient     = 0.2
	WeightTemporalProximity = 0.1
)

// DetectionService 协作作弊嫌疑挖掘管道。
// 周期性扫描近期提交的有界窗口，跑三类检测，
// 置信度过阈值的候选对经授权闸门后落库。只产情报，不做处罚。
type DetectionService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewDetectionService(db *gorm.DB, cfg *config.Config) *DetectionService {
	return &DetectionService{db: db, cfg: cfg}
}

// candidate 一个待持久化的嫌疑候选，证据此时仍是原始形态
type candidate struct {
	userID1       uint32
	userID2       uint32
	challengeID   uint32
	detectionType models.DetectionType
	confidence    float64
	evidence      map[string]interface{}
}

// ScanResult 单次扫描的执行摘要
type ScanResult struct {
	RunID      string
	Scanned    int
	CeilingHit bool
	Created    int
}

// Run 执行一次完整扫描。
// 行数上限与实际负载无关，是对抗提交洪水的硬顶；
// 触顶时只分析窗口内最新的行并发出降级警告。
func (s *DetectionService) Run() ScanResult {
	result := ScanResult{RunID: uuid.NewString()[:8]}
	if !s.cfg.SuspicionEnabled {
		return result
	}

	windowSecs := s.cfg.AnalyticsIntervalSecs * 2 // 两个周期的窗口，保证覆盖有重叠
	cutoff := time.Now().Add(-time.Duration(windowSecs) * time.Second)

	var recent []models.Submission
	err := s.db.Where("submitted_at >= ?", cutoff).
		Order("submitted_at desc").
		Limit(s.cfg.MaxScanRows).
		Find(&recent).Error
	if err != nil {
		log.Printf("[ANALYTICS ERROR] run %s: fetch submissions failed: %v", result.RunID, err)
		return result
	}

	result.Scanned = len(recent)
	if len(recent) >= s.cfg.MaxScanRows {
		result.CeilingHit = true
		log.Printf("[ANALYTICS WARNING] run %s: hit scan ceiling (%d rows), possible flood, analyzing newest rows only",
			result.RunID, s.cfg.MaxScanRows)
	}

	// 按题目分组，跨题目的提交没有可比性
	byChallenge := make(map[uint32][]models.Submission)
	for _, sub := range recent {
		byChallenge[sub.ChallengeID] = append(byChallenge[sub.ChallengeID], sub)
	}

	for challengeID, subs := range byChallenge {
		if len(subs) < 2 {
			continue
		}

		var candidates []candidate
		candidates = append(candidates, s.detectSameOrigin(subs)...)
		candidates = append(candidates, s.detectDuplicateWrong(subs)...)
		candidates = append(candidates, s.detectSimilarClient(subs)...)

		for _, cand := range candidates {
			if cand.confidence < s.cfg.SuspicionThreshold {
				continue
			}
			created, err := s.createFinding(cand)
			if err != nil {
				log.Printf("[ANALYTICS ERROR] run %s: create finding failed for challenge %d: %v",
					result.RunID, challengeID, err)
				continue
			}
			if created {
				result.Created++
			}
		}
	}

	log.Printf("[ANALYTICS] run %s: scanned=%d created=%d", result.RunID, result.Scanned, result.Created)
	return result
}

// detectSameOrigin 同源短时窗口内的不同用户
func (s *DetectionService) detectSameOrigin(subs []models.Submission) []candidate {
	var out []candidate

	byIP := make(map[string][]models.Submission)
	for _, sub := range subs {
		if sub.IP != "" {
			byIP[sub.IP] = append(byIP[sub.IP], sub)
		}
	}

	window := float64(s.cfg.TemporalWindowSecs)
	for ip, group := range byIP {
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				a, b := group[i], group[j]
				if a.UserID == b.UserID {
					continue
				}
				delta := math.Abs(b.SubmittedAt.Sub(a.SubmittedAt).Seconds())
				if delta > window {
					continue
				}
				out = append(out, candidate{
					userID1:       a.UserID,
					userID2:       b.UserID,
					challengeID:   a.ChallengeID,
					detectionType: models.DetectionSameOrigin,
					confidence:    combineConfidence(WeightSameOrigin, WeightTemporalProximity),
					evidence: map[string]interface{}{
						"ip":                 ip,
						"time_delta_seconds": delta,
						"submission_1_id":    a.ID,
						"submission_2_id":    b.ID,
						"submission_1_text":  truncate(a.ProvidedText, 100),
						"submission_2_text":  truncate(b.ProvidedText, 100),
					},
				})
			}
		}
	}
	return out
}

// detectDuplicateWrong 字节一致的错误答案出现在不同用户
func (s *DetectionService) detectDuplicateWrong(subs []models.Submission) []candidate {
	var out []candidate

	byText := make(map[string][]models.Submission)
	for _, sub := range subs {
		if sub.Type == models.SubmissionCorrect || sub.ProvidedText == "" {
			continue
		}
		normalized := strings.ToLower(strings.TrimSpace(sub.ProvidedText))
		byText[normalized] = append(byText[normalized], sub)
	}

	window := float64(s.cfg.TemporalWindowSecs)
	for text, group := range byText {
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				a, b := group[i], group[j]
				if a.UserID == b.UserID {
					continue
				}
				delta := math.Abs(b.SubmittedAt.Sub(a.SubmittedAt).Seconds())
				weights := []float64{WeightDuplicateWrong}
				if delta <= window {
					weights = append(weights, WeightTemporalProximity)
				}
				out = append(out, candidate{
					userID1:       a.UserID,
					userID2:       b.UserID,
					challengeID:   a.ChallengeID,
					detectionType: models.DetectionDuplicateWrong,
					confidence:    combineConfidence(weights...),
					evidence: map[string]interface{}{
						"submission_text":    truncate(text, 200),
						"time_delta_seconds": delta,
						"submission_1_id":    a.ID,
						"submission_2_id":    b.ID,
						"ip_1":               a.IP,
						"ip_2":               b.IP,
					},
				})
			}
		}
	}
	return out
}

// detectSimilarClient 客户端标识相似度超阈值的不同用户
func (s *DetectionService) detectSimilarClient(subs []models.Submission) []candidate {
	var out []candidate

	var sigSubs []models.Submission
	for _, sub := range subs {
		if sub.ClientSignature != "" {
			sigSubs = append(sigSubs, sub)
		}
	}

	window := float64(s.cfg.TemporalWindowSecs)
	for i := 0; i < len(sigSubs); i++ {
		for j := i + 1; j < len(sigSubs); j++ {
			a, b := sigSubs[i], sigSubs[j]
			if a.UserID == b.UserID {
				continue
			}
			similarity := utils.LevenshteinRatio(a.ClientSignature, b.ClientSignature)
			if similarity < s.cfg.SimilarityThreshold {
				continue
			}
			delta := math.Abs(b.SubmittedAt.Sub(a.SubmittedAt).Seconds())
			weights := []float64{WeightSimilarClient}
			if delta <= window {
				weights = append(weights, WeightTemporalProximity)
			}
			if a.IP != "" && a.IP == b.IP {
				weights = append(weights, WeightSameOrigin)
			}
			out = append(out, candidate{
				userID1:       a.UserID,
				userID2:       b.UserID,
				challengeID:   a.ChallengeID,
				detectionType: models.DetectionSimilarClient,
				confidence:    combineConfidence(weights...),
				evidence: map[string]interface{}{
					"signature_similarity": similarity,
					"client_signature_1":   truncate(a.ClientSignature, 200),
					"client_signature_2":   truncate(b.ClientSignature, 200),
					"time_delta_seconds":   delta,
					"submission_1_id":      a.ID,
					"submission_2_id":      b.ID,
					"ip_1":                 a.IP,
					"ip_2":                 b.IP,
				},
			})
		}
	}
	return out
}

// createFinding 授权闸门 + 脱敏 + 落库，三者在同一事务内原子完成。
//
// 授权行在事务内加锁读取并持有到提交，授权必须在整个事务期间
// 一直成立，而不是某个先前瞬间成立过。
// 任一相关用户未授权时事务放弃，返回 (false, nil)——
// 这是预期控制流，不是错误。
func (s *DetectionService) createFinding(cand candidate) (bool, error) {
	created := false

	err := s.db.Transaction(func(tx *gorm.DB) error {
		ok, err := LockedConsent(tx, cand.userID1)
		if err != nil {
			return err
		}
		if !ok {
			log.Printf("[ANALYTICS] skipping finding for user %d - no consent", cand.userID1)
			return nil
		}

		if cand.userID2 != 0 {
			ok, err := LockedConsent(tx, cand.userID2)
			if err != nil {
				return err
			}
			if !ok {
				log.Printf("[ANALYTICS] skipping finding for user %d - no consent", cand.userID2)
				return nil
			}
		}

		sanitized := utils.SanitizeEvidence(cand.evidence)
		raw, err := json.Marshal(sanitized)
		if err != nil {
			return err
		}

		finding := models.SuspicionFinding{
			UserID1:         cand.userID1,
			ChallengeID:     cand.challengeID,
			DetectionType:   cand.detectionType,
			ConfidenceScore: cand.confidence,
			RiskLevel:       DetermineRiskLevel(cand.confidence),
			Evidence:        datatypes.JSON(raw),
		}
		if cand.userID2 != 0 {
			u2 := cand.userID2
			finding.UserID2 = &u2
		}

		if err := tx.Create(&finding).Error; err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if created {
		log.Printf("[ANALYTICS] created finding: users %d,%d challenge %d type=%s confidence=%.2f",
			cand.userID1, cand.userID2, cand.challengeID, cand.detectionType, cand.confidence)
	}
	return created, nil
}

// combineConfidence 信号权重求和，封顶 1.0
func combineConfidence(weights ...float64) float64 {
	score := 0.0
	for _, w := range weights {
		score += w
	}
	return math.Min(score, 1.0)
}

// DetermineRiskLevel 置信度分档：HIGH ≥ 0.75，MEDIUM ≥ 0.5，其余 LOW
func DetermineRiskLevel(confidence float64) models.RiskLevel {
	switch {
	case confidence >= 0.75:
		return models.RiskHigh
	case confidence >= 0.5:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
