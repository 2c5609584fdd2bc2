// file: dto/finding.go
package dto

import (
	"encoding/json"
)

// FindingItemResp 嫌疑记录列表项（证据已脱敏）
type FindingItemResp struct {
	ID              uint64          `json:"id"`
	UserID1         uint32          `json:"user_id_1"`
	UserID2         *uint32         `json:"user_id_2,omitempty"`
	ChallengeID     uint32          `json:"challenge_id"`
	DetectionType   string          `json:"detection_type"`
	ConfidenceScore float64         `json:"confidence_score"`
	RiskLevel       string          `json:"risk_level"`
	Evidence        json.RawMessage `json:"evidence"`
	Verdict         *string         `json:"verdict"` // null = pending
	ReviewedBy      *uint32         `json:"reviewed_by,omitempty"`
	ReviewedAt      string          `json:"reviewed_at,omitempty"`
	CreatedAt       string          `json:"created_at"`
}

// VerdictEntryResp 审计链中的单条裁决
type VerdictEntryResp struct {
	ID         uint64 `json:"id"`
	Verdict    string `json:"verdict"`
	ReviewerID uint32 `json:"reviewer_id"`
	Notes      string `json:"notes,omitempty"`
	CreatedAt  string `json:"created_at"`
}

// FindingDetailResp 详情 = 记录本体 + 按时间正序的完整裁决历史
type FindingDetailResp struct {
	Finding FindingItemResp    `json:"finding"`
	History []VerdictEntryResp `json:"verdict_history"`
}
