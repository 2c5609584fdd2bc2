// file: main.go
package main

import (
	"log"

	"CYBERCOM/config"
	"CYBERCOM/controllers"
	"CYBERCOM/database"
	"CYBERCOM/routes"
	"CYBERCOM/services"
	"CYBERCOM/utils"
	"CYBERCOM/workers"
)

func main() {
	cfg := config.Load()
	if !cfg.Enabled {
		log.Fatal("Intelligence layer is disabled (INTEL_ENABLED=0)")
	}

	db, err := database.Connect(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.MigrateTables(db); err != nil {
		log.Fatalf("Failed to migrate tables: %v", err)
	}

	// Redis 只承载签名缓存提示，连不上就降级为纯数据库路径
	rdb, err := database.InitRedis(cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Printf("Redis unavailable, running without cache hints: %v", err)
		rdb = nil
	}

	// 服务对象进程内构造一次，按引用传给调用点
	cache := utils.NewSignedCache(rdb, cfg.HMACSecret)
	locker := database.DetectLocker(db)
	engine := services.NewFirstBloodEngine(cfg, cache, locker)
	ingest := services.NewIngestService(db, engine)
	ledger := services.NewConsentLedger(db)
	detection := services.NewDetectionService(db, cfg)
	audit := services.NewAuditTrail(db)
	leaderboard := services.NewLeaderboardService(db)
	health := services.NewHealthService(db, cfg)
	cleanup := services.NewCleanupService(db, cfg)

	manager := workers.NewManager(cfg, detection, health, cleanup)
	manager.Start()
	defer manager.Stop()

	r := routes.SetupRouter(cfg, routes.Controllers{
		Leaderboard: controllers.NewLeaderboardController(leaderboard, cfg),
		Finding:     controllers.NewFindingController(db, audit, cfg),
		Consent:     controllers.NewConsentController(ledger),
		Health:      controllers.NewHealthController(health, cfg),
		Status:      controllers.NewStatusController(cfg),
		Submission:  controllers.NewSubmissionController(ingest),
	})

	log.Printf("Starting intelligence layer on %s (first_blood=%v suspicion=%v health=%v)",
		cfg.ListenAddr, cfg.FirstBloodEnabled, cfg.SuspicionEnabled, cfg.HealthEnabled)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
