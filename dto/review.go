// file: dto/review.go
package dto

// ReviewReq 审核裁决请求，verdict 只接受固定枚举
type ReviewReq struct {
	Verdict string `json:"verdict" binding:"required"`
	Notes   string `json:"notes"`
}

// ReviewResp 返回审计条目标识，证明裁决已进入不可变审计链
type ReviewResp struct {
	AuditEntryID uint64 `json:"audit_entry_id"`
	ReviewedAt   string `json:"reviewed_at"`
}
