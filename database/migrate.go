// file: database/migrate.go
package database

import (
	"log"

	"CYBERCOM/models"
	"gorm.io/gorm"
)

// MigrateTables 建表与索引。提交表和题目表属于平台本体，
// 这里一并迁移以便独立部署与测试；生产环境可关闭。
func MigrateTables(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Challenge{},
		&models.Submission{},
		&models.FirstBloodRecord{},
		&models.ConsentRecord{},
		&models.SuspicionFinding{},
		&models.VerdictAuditEntry{},
		&models.ChallengeHealthSnapshot{},
	)
	if err != nil {
		return err
	}
	return InstallAuditGuards(db)
}

// InstallAuditGuards 在审计表上安装拒绝 UPDATE/DELETE 的触发器。
// 审计表的不可变性必须由存储层结构性保证，而不是应用层自律。
func InstallAuditGuards(db *gorm.DB) error {
	table := models.VerdictAuditEntry{}.TableName()

	switch db.Dialector.Name() {
	case "mysql":
		stmts := []string{
			"DROP TRIGGER IF EXISTS cybercom_verdict_no_update",
			"CREATE TRIGGER cybercom_verdict_no_update BEFORE UPDATE ON " + table +
				" FOR EACH ROW SIGNAL SQLSTATE '45000' SET MESSAGE_TEXT = 'verdict audit trail is append-only'",
			"DROP TRIGGER IF EXISTS cybercom_verdict_no_delete",
			"CREATE TRIGGER cybercom_verdict_no_delete BEFORE DELETE ON " + table +
				" FOR EACH ROW SIGNAL SQLSTATE '45000' SET MESSAGE_TEXT = 'verdict audit trail is append-only'",
		}
		for _, s := range stmts {
			if err := db.Exec(s).Error; err != nil {
				return err
			}
		}
	case "sqlite":
		stmts := []string{
			"CREATE TRIGGER IF NOT EXISTS cybercom_verdict_no_update BEFORE UPDATE ON " + table +
				" BEGIN SELECT RAISE(ABORT, 'verdict audit trail is append-only'); END",
			"CREATE TRIGGER IF NOT EXISTS cybercom_verdict_no_delete BEFORE DELETE ON " + table +
				" BEGIN SELECT RAISE(ABORT, 'verdict audit trail is append-only'); END",
		}
		for _, s := range stmts {
			if err := db.Exec(s).Error; err != nil {
				return err
			}
		}
	default:
		log.Printf("[MIGRATE] no audit guard triggers for dialect %q", db.Dialector.Name())
	}

	return nil
}
