// file: controllers/leaderboard_controller.go
package controllers

import (
	"log"
	"strconv"

	"CYBERCOM/config"
	"CYBERCOM/services"
	"CYBERCOM/utils"
	"github.com/gin-gonic/gin"
)

type LeaderboardController struct {
	svc *services.LeaderboardService
	cfg *config.Config
}

func NewLeaderboardController(svc *services.LeaderboardService, cfg *config.Config) *LeaderboardController {
	return &LeaderboardController{svc: svc, cfg: cfg}
}

// Get —— 一血威望榜。mode=team 返回战队榜，默认个人榜。
func (ctl *LeaderboardController) Get(c *gin.Context) {
	if !ctl.cfg.FirstBloodEnabled {
		utils.Error(c, 4004, "一血系统未启用")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	teamMode := c.Query("mode") == "team"

	var (
		entries []services.LeaderboardEntry
		err     error
	)
	if teamMode {
		entries, err = ctl.svc.TopTeams(limit)
	} else {
		entries, err = ctl.svc.TopUsers(limit)
	}
	if err != nil {
		// 读接口降级：记录原因，返回空榜
		log.Printf("[API ERROR] leaderboard query failed: %v", err)
		utils.Success(c, "success", gin.H{"team_mode": teamMode, "count": 0, "leaderboard": []services.LeaderboardEntry{}})
		return
	}

	utils.Success(c, "success", gin.H{
		"team_mode":   teamMode,
		"count":       len(entries),
		"leaderboard": entries,
	})
}
