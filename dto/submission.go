// file: dto/submission.go
package dto

import (
	"time"
)

// SubmissionFactReq 提交管道推送的事实。
// timestamp 缺省由服务端补当前时间（微秒精度参与平局裁决）。
type SubmissionFactReq struct {
	ChallengeID     uint32     `json:"challenge_id" binding:"required"`
	UserID          uint32     `json:"user_id" binding:"required"`
	TeamID          *uint32    `json:"team_id"`
	IP              string     `json:"ip"`
	ClientSignature string     `json:"client_signature"`
	Type            string     `json:"type" binding:"required"`
	ProvidedText    string     `json:"provided_text"`
	Timestamp       *time.Time `json:"timestamp"`
}
