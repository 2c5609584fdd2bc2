// file: services/ingest_service.go
package services

import (
	"CYBERCOM/models"
	"gorm.io/gorm"
)

// IngestService 提交事实的入库集成点。
//
// 答案校验、flag 比对都在提交管道那一侧完成；
// 管道每产出一条事实就调用一次 Record，提交行与一血判定
// 在同一事务内完成。引擎遵守 must-not-fail 契约，
// 它的任何内部失败都不会让这笔事务失败。
type IngestService struct {
	db     *gorm.DB
	engine *FirstBloodEngine
}

func NewIngestService(db *gorm.DB, engine *FirstBloodEngine) *IngestService {
	return &IngestService{db: db, engine: engine}
}

// Record 落一条提交事实并同步触发一血判定
func (s *IngestService) Record(sub *models.Submission) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(sub).Error; err != nil {
			return err
		}
		s.engine.OnSolveInserted(tx, sub)
		return nil
	})
}
