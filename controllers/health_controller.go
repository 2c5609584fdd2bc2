// file: controllers/health_controller.go
package controllers

import (
	"log"
	"strconv"
	"strings"
	"time"

	"CYBERCOM/config"
	"CYBERCOM/models"
	"CYBERCOM/services"
	"CYBERCOM/utils"
	"github.com/gin-gonic/gin"
)

type HealthController struct {
	svc *services.HealthService
	cfg *config.Config
}

func NewHealthController(svc *services.HealthService, cfg *config.Config) *HealthController {
	return &HealthController{svc: svc, cfg: cfg}
}

// List —— 每道题目的最新健康快照，可按状态过滤
func (ctl *HealthController) List(c *gin.Context) {
	if !ctl.cfg.HealthEnabled {
		utils.Error(c, 4004, "题目健康监控未启用")
		return
	}

	statusFilter := strings.ToUpper(strings.TrimSpace(c.Query("status")))
	snapshots, err := ctl.svc.Latest(statusFilter)
	if err != nil {
		log.Printf("[API ERROR] health list query failed: %v", err)
		utils.Success(c, "success", gin.H{"count": 0, "challenges": []gin.H{}})
		return
	}

	items := make([]gin.H, 0, len(snapshots))
	for _, s := range snapshots {
		items = append(items, snapshotItem(s))
	}
	utils.Success(c, "success", gin.H{"count": len(items), "challenges": items})
}

// Detail —— 单题的健康历史，新在前
func (ctl *HealthController) Detail(c *gin.Context) {
	if !ctl.cfg.HealthEnabled {
		utils.Error(c, 4004, "题目健康监控未启用")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.Error(c, 1001, "无效的题目 ID")
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "24"))

	snapshots, err := ctl.svc.History(uint32(id), limit)
	if err != nil {
		utils.ServerError(c, "健康历史查询失败")
		return
	}
	if len(snapshots) == 0 {
		utils.Error(c, 4004, "该题目暂无健康数据")
		return
	}

	history := make([]gin.H, 0, len(snapshots))
	for _, s := range snapshots {
		history = append(history, snapshotItem(s))
	}
	utils.Success(c, "success", gin.H{
		"challenge_id": uint32(id),
		"current":      history[0],
		"history":      history,
	})
}

func snapshotItem(s models.ChallengeHealthSnapshot) gin.H {
	return gin.H{
		"challenge_id": s.ChallengeID,
		"solves":       s.Solves,
		"attempts":     s.Attempts,
		"solve_rate":   s.SolveRate,
		"health_score": s.HealthScore,
		"status":       string(s.Status),
		"timestamp":    s.Timestamp.Format(time.RFC3339),
	}
}
