// file: database/connect.go
package database

import (
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Connect 建立 MySQL 连接并配置连接池。
// 后台任务会周期性跑批，连接池参数决定了它们和请求路径能否共存。
func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	// 连接复用上限设为 1 小时，避免 MySQL wait_timeout 把空闲连接掐掉
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}
