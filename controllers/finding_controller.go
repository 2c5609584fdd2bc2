// file: controllers/finding_controller.go
package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"CYBERCOM/config"
	"CYBERCOM/dto"
	"CYBERCOM/models"
	"CYBERCOM/services"
	"CYBERCOM/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type FindingController struct {
	db    *gorm.DB
	audit *services.AuditTrail
	cfg   *config.Config
}

func NewFindingController(db *gorm.DB, audit *services.AuditTrail, cfg *config.Config) *FindingController {
	return &FindingController{db: db, audit: audit, cfg: cfg}
}

// List —— 嫌疑记录列表，支持 status / risk_level 过滤
// status=pending 表示便捷裁决字段为空（待审核）
func (ctl *FindingController) List(c *gin.Context) {
	if !ctl.cfg.SuspicionEnabled {
		utils.Error(c, 4004, "嫌疑检测未启用")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	db := ctl.db.Model(&models.SuspicionFinding{})

	if status := strings.TrimSpace(c.Query("status")); status != "" {
		if strings.EqualFold(status, "pending") {
			db = db.Where("verdict IS NULL")
		} else if models.ValidVerdict(status) {
			db = db.Where("verdict = ?", status)
		} else {
			utils.Error(c, 1001, "status 取值无效（pending/innocent/suspicious/confirmed）")
			return
		}
	}
	if risk := strings.TrimSpace(c.Query("risk_level")); risk != "" {
		db = db.Where("risk_level = ?", strings.ToUpper(risk))
	}

	var findings []models.SuspicionFinding
	if err := db.Order("created_at desc").Limit(limit).Find(&findings).Error; err != nil {
		// 读接口尽量降级为空结果而不是整体失败
		log.Printf("[API ERROR] finding list query failed: %v", err)
		utils.Success(c, "success", gin.H{"total": 0, "findings": []dto.FindingItemResp{}})
		return
	}

	items := make([]dto.FindingItemResp, 0, len(findings))
	for i := range findings {
		items = append(items, toFindingItem(&findings[i]))
	}
	utils.Success(c, "success", gin.H{"total": len(items), "findings": items})
}

// Detail —— 嫌疑详情 + 按时间正序的完整裁决历史
func (ctl *FindingController) Detail(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.Error(c, 1001, "无效的记录 ID")
		return
	}

	var finding models.SuspicionFinding
	if err := ctl.db.First(&finding, id).Error; err != nil {
		utils.Error(c, 4004, "嫌疑记录不存在")
		return
	}

	entries, err := ctl.audit.History(id, 100)
	if err != nil {
		utils.ServerError(c, "裁决历史查询失败")
		return
	}

	history := make([]dto.VerdictEntryResp, 0, len(entries))
	for _, e := range entries {
		history = append(history, dto.VerdictEntryResp{
			ID:         e.ID,
			Verdict:    string(e.Verdict),
			ReviewerID: e.ReviewerID,
			Notes:      e.Notes,
			CreatedAt:  e.CreatedAt.Format(time.RFC3339Nano),
		})
	}

	utils.Success(c, "success", dto.FindingDetailResp{
		Finding: toFindingItem(&finding),
		History: history,
	})
}

// Review —— 提交审核裁决。裁决进入不可变审计链后才算成功；
// 审计写入失败必须以服务端错误终止请求。
func (ctl *FindingController) Review(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.Error(c, 1001, "无效的记录 ID")
		return
	}

	var req dto.ReviewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "参数无效: "+err.Error())
		return
	}
	if !models.ValidVerdict(req.Verdict) {
		utils.Error(c, 1002, "verdict 取值无效（innocent/suspicious/confirmed）")
		return
	}

	reviewerAny, exists := c.Get("user_id")
	if !exists {
		utils.Error(c, 4001, "未登录")
		return
	}
	reviewerID := reviewerAny.(uint32)

	entry, err := ctl.audit.RecordVerdict(id, models.Verdict(req.Verdict), reviewerID, c.ClientIP(), req.Notes)
	if err != nil {
		if errors.Is(err, services.ErrFindingNotFound) {
			utils.Error(c, 4004, "嫌疑记录不存在")
			return
		}
		utils.ServerError(c, "裁决写入失败")
		return
	}

	utils.Success(c, "Verdict recorded", dto.ReviewResp{
		AuditEntryID: entry.ID,
		ReviewedAt:   entry.CreatedAt.Format(time.RFC3339Nano),
	})
}

func toFindingItem(f *models.SuspicionFinding) dto.FindingItemResp {
	item := dto.FindingItemResp{
		ID:              f.ID,
		UserID1:         f.UserID1,
		UserID2:         f.UserID2,
		ChallengeID:     f.ChallengeID,
		DetectionType:   string(f.DetectionType),
		ConfidenceScore: f.ConfidenceScore,
		RiskLevel:       string(f.RiskLevel),
		Evidence:        json.RawMessage(f.Evidence),
		ReviewedBy:      f.ReviewedBy,
		CreatedAt:       f.CreatedAt.Format(time.RFC3339Nano),
	}
	if f.Verdict != nil {
		v := string(*f.Verdict)
		item.Verdict = &v
	}
	if f.ReviewedAt != nil {
		item.ReviewedAt = f.ReviewedAt.Format(time.RFC3339Nano)
	}
	return item
}
