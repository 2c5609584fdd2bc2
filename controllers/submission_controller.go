// file: controllers/submission_controller.go
package controllers

import (
	"time"

	"CYBERCOM/dto"
	"CYBERCOM/models"
	"CYBERCOM/services"
	"CYBERCOM/utils"
	"github.com/gin-gonic/gin"
)

// SubmissionController 提交事实的接收端。
// 答案是否正确由提交管道判定，这里只接收结论性的事实。
type SubmissionController struct {
	ingest *services.IngestService
}

func NewSubmissionController(ingest *services.IngestService) *SubmissionController {
	return &SubmissionController{ingest: ingest}
}

// Create —— 管道推送一条提交事实，事务内同步完成一血判定
func (ctl *SubmissionController) Create(c *gin.Context) {
	var req dto.SubmissionFactReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "参数无效: "+err.Error())
		return
	}
	if req.Type != string(models.SubmissionCorrect) && req.Type != string(models.SubmissionIncorrect) {
		utils.Error(c, 1001, "type 取值无效（correct/incorrect）")
		return
	}

	submittedAt := time.Now()
	if req.Timestamp != nil {
		submittedAt = *req.Timestamp
	}

	sub := models.Submission{
		ChallengeID:     req.ChallengeID,
		UserID:          req.UserID,
		TeamID:          req.TeamID,
		IP:              req.IP,
		ClientSignature: req.ClientSignature,
		Type:            models.SubmissionType(req.Type),
		ProvidedText:    req.ProvidedText,
		SubmittedAt:     submittedAt,
	}

	if err := ctl.ingest.Record(&sub); err != nil {
		utils.ServerError(c, "提交事实写入失败")
		return
	}

	utils.Success(c, "Submission recorded", gin.H{"id": sub.ID})
}
