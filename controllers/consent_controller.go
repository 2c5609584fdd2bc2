// file: controllers/consent_controller.go
package controllers

import (
	"time"

	"CYBERCOM/services"
	"CYBERCOM/utils"
	"github.com/gin-gonic/gin"
)

type ConsentController struct {
	ledger *services.ConsentLedger
}

func NewConsentController(ledger *services.ConsentLedger) *ConsentController {
	return &ConsentController{ledger: ledger}
}

// Grant —— 用户授予分析授权（只能操作自己）
func (ctl *ConsentController) Grant(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.Error(c, 4001, "未登录")
		return
	}
	if err := ctl.ledger.Grant(userID); err != nil {
		utils.ServerError(c, "授权写入失败")
		return
	}
	utils.Success(c, "Consent granted", nil)
}

// Withdraw —— 用户撤回授权，相关数据按保留策略删除
func (ctl *ConsentController) Withdraw(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.Error(c, 4001, "未登录")
		return
	}
	if err := ctl.ledger.Withdraw(userID); err != nil {
		utils.ServerError(c, "授权撤回失败")
		return
	}
	utils.Success(c, "Consent withdrawn", nil)
}

// Status —— 查询自己的授权状态，无记录等价于未授权
func (ctl *ConsentController) Status(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.Error(c, 4001, "未登录")
		return
	}
	record, err := ctl.ledger.Status(userID)
	if err != nil {
		utils.ServerError(c, "授权状态查询失败")
		return
	}
	if record == nil {
		utils.Success(c, "success", gin.H{"consented": false})
		return
	}

	resp := gin.H{"consented": record.Consented}
	if record.ConsentedAt != nil {
		resp["consented_at"] = record.ConsentedAt.Format(time.RFC3339)
	}
	if record.WithdrawnAt != nil {
		resp["withdrawn_at"] = record.WithdrawnAt.Format(time.RFC3339)
	}
	utils.Success(c, "success", resp)
}

func currentUserID(c *gin.Context) (uint32, bool) {
	userIDAny, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	userID, ok := userIDAny.(uint32)
	return userID, ok
}
