// file: controllers/status_controller.go
package controllers

import (
	"CYBERCOM/config"
	"CYBERCOM/utils"
	"github.com/gin-gonic/gin"
)

type StatusController struct {
	cfg *config.Config
}

func NewStatusController(cfg *config.Config) *StatusController {
	return &StatusController{cfg: cfg}
}

// Get —— 运维可见性：开关与阈值
func (ctl *StatusController) Get(c *gin.Context) {
	utils.Success(c, "success", gin.H{
		"enabled":  ctl.cfg.Enabled,
		"features": ctl.cfg.FeatureStatus(),
		"version":  "2.0.0",
	})
}
