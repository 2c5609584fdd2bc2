// file: config/config.go
package config

import (
	"os"
	"strconv"
)

// Config 情报层的全部运行配置，启动时从环境变量读取一次。
// 各开关对应三大支柱：一血判定 / 作弊嫌疑检测 / 题目健康监控。
type Config struct {
	// 基础服务配置
	ListenAddr    string
	MySQLDSN      string
	RedisAddr     string
	RedisPassword string
	JWTSecret     string

	// 总开关与分支开关
	Enabled           bool
	FirstBloodEnabled bool
	SuspicionEnabled  bool
	HealthEnabled     bool

	// 检测阈值
	SuspicionThreshold  float64 // 置信度达到该值才落库
	SimilarityThreshold float64 // 客户端标识编辑距离相似度阈值
	TemporalWindowSecs  int     // 同源判定的时间窗口（秒）

	// 扫描与保留策略
	MaxScanRows   int // 单次扫描的硬上限，防止提交洪水耗尽内存
	RetentionDays int // 嫌疑记录与健康快照的保留天数，一血记录永久保留

	// 后台任务周期
	AnalyticsIntervalSecs int
	HealthIntervalHours   int
	CleanupIntervalHours  int

	// 缓存完整性
	HMACSecret         string
	FirstBloodCacheTTL int // 秒
}

func Load() *Config {
	return &Config{
		ListenAddr:    getEnv("INTEL_LISTEN_ADDR", ":8080"),
		MySQLDSN:      getEnv("INTEL_MYSQL_DSN", "root:123456@tcp(localhost:3306)/cybercom?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisAddr:     getEnv("INTEL_REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("INTEL_REDIS_PASSWORD", ""),
		JWTSecret:     getEnv("INTEL_JWT_SECRET", "a-very-secure-secret-that-should-be-in-env"),

		Enabled:           getEnvBool("INTEL_ENABLED", true),
		FirstBloodEnabled: getEnvBool("INTEL_FIRST_BLOOD_ENABLED", true),
		SuspicionEnabled:  getEnvBool("INTEL_SUSPICION_ENABLED", true),
		HealthEnabled:     getEnvBool("INTEL_HEALTH_ENABLED", true),

		SuspicionThreshold:  getEnvFloat("INTEL_SUSPICION_THRESHOLD", 0.75),
		SimilarityThreshold: getEnvFloat("INTEL_UA_SIMILARITY_THRESHOLD", 0.95),
		TemporalWindowSecs:  getEnvInt("INTEL_TEMPORAL_WINDOW_SECONDS", 60),

		MaxScanRows:   getEnvInt("INTEL_MAX_SCAN_ROWS", 5000),
		RetentionDays: getEnvInt("INTEL_RETENTION_DAYS", 30),

		AnalyticsIntervalSecs: getEnvInt("INTEL_ANALYTICS_INTERVAL_SECONDS", 30),
		HealthIntervalHours:   getEnvInt("INTEL_HEALTH_INTERVAL_HOURS", 1),
		CleanupIntervalHours:  getEnvInt("INTEL_CLEANUP_INTERVAL_HOURS", 24),

		HMACSecret:         getEnv("INTEL_HMAC_SECRET", "default-insecure-key"),
		FirstBloodCacheTTL: getEnvInt("INTEL_FIRST_BLOOD_CACHE_TTL", 86400),
	}
}

// FeatureStatus 供 /status 接口做运行时可见性展示
func (c *Config) FeatureStatus() map[string]interface{} {
	return map[string]interface{}{
		"enabled":             c.Enabled,
		"first_blood":         c.FirstBloodEnabled,
		"suspicion":           c.SuspicionEnabled,
		"health":              c.HealthEnabled,
		"suspicion_threshold": c.SuspicionThreshold,
		"retention_days":      c.RetentionDays,
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val == "1" || val == "true"
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return fallback
}
