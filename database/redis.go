// file: database/redis.go
package database

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// InitRedis 建立 Redis 连接。
// Redis 在本系统中只承载签名缓存提示，属可丢弃层；
// 连接失败由调用方决定是否致命。
func InitRedis(addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
		PoolSize: 100,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, err
	}

	return rdb, nil
}
