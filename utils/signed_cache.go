// file: utils/signed_cache.go
package utils

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// SignedCache 带 HMAC 签名的 Redis 缓存层。
//
// 缓存值只是加速提示，绝不作为有持久副作用决策的唯一依据；
// 签名校验失败或载荷损坏按"不存在"处理并当场删除，
// 把缓存投毒的影响限制在一次多余的数据库查询。
type SignedCache struct {
	rdb    *redis.Client
	secret []byte
}

func NewSignedCache(rdb *redis.Client, secret string) *SignedCache {
	return &SignedCache{rdb: rdb, secret: []byte(secret)}
}

type signedPayload struct {
	Value     string `json:"value"`
	Signature string `json:"signature"`
}

// Sign 计算值的 HMAC-SHA256 签名（十六进制）
func (s *SignedCache) Sign(value string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(value))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify 常数时间比较，防止时序侧信道
func (s *SignedCache) Verify(value, signature string) bool {
	if signature == "" {
		return false
	}
	expected := s.Sign(value)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Set 写入 {value, signature} 信封
func (s *SignedCache) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if s.rdb == nil {
		return
	}
	payload, err := json.Marshal(signedPayload{Value: value, Signature: s.Sign(value)})
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, key, payload, ttl).Err(); err != nil {
		// 缓存层可丢弃，写失败不影响主流程
		log.Printf("[CACHE] set %s failed: %v", key, err)
	}
}

// Get 读取并验签。返回 ("", false) 表示不存在或不可信。
// 伪造/截断的签名与畸形载荷都会触发删除。
func (s *SignedCache) Get(ctx context.Context, key string) (string, bool) {
	if s.rdb == nil {
		return "", false
	}
	raw, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}

	var payload signedPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		log.Printf("[CACHE SECURITY] malformed payload for key %s, purging", key)
		s.rdb.Del(ctx, key)
		return "", false
	}

	if !s.Verify(payload.Value, payload.Signature) {
		log.Printf("[CACHE SECURITY] invalid signature for key %s, purging", key)
		s.rdb.Del(ctx, key)
		return "", false
	}

	return payload.Value, true
}

// Delete 主动失效
func (s *SignedCache) Delete(ctx context.Context, key string) {
	if s.rdb == nil {
		return
	}
	s.rdb.Del(ctx, key)
}
