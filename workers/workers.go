// file: workers/workers.go
package workers

import (
	"log"
	"time"

	"CYBERCOM/config"
	"CYBERCOM/services"
)

// Manager 后台任务调度：嫌疑挖掘、健康快照、保留清理。
//
// 每类任务一个 goroutine + Ticker，单实例串行执行；
// 每轮都有 panic 防护，用的是连接池里独立取用的连接，
// 执行完即归还，反复调度不会耗尽连接池。
type Manager struct {
	cfg       *config.Config
	detection *services.DetectionService
	health    *services.HealthService
	cleanup   *services.CleanupService
	stop      chan struct{}
}

func NewManager(cfg *config.Config, detection *services.DetectionService, health *services.HealthService, cleanup *services.CleanupService) *Manager {
	return &Manager{
		cfg:       cfg,
		detection: detection,
		health:    health,
		cleanup:   cleanup,
		stop:      make(chan struct{}),
	}
}

// Start 启动全部后台任务
func (m *Manager) Start() {
	log.Println("[WORKERS] starting background workers...")

	if m.cfg.SuspicionEnabled {
		go m.loop("analytics", time.Duration(m.cfg.AnalyticsIntervalSecs)*time.Second, func() {
			m.detection.Run()
		})
		log.Printf("[WORKERS] analytics worker started (interval=%ds)", m.cfg.AnalyticsIntervalSecs)
	}

	if m.cfg.HealthEnabled {
		go m.loop("health", time.Duration(m.cfg.HealthIntervalHours)*time.Hour, func() {
			if n, err := m.health.Snapshot(); err != nil {
				log.Printf("[HEALTH ERROR] snapshot run failed: %v", err)
			} else {
				log.Printf("[HEALTH] created %d snapshots", n)
			}
		})
		log.Printf("[WORKERS] health worker started (interval=%dh)", m.cfg.HealthIntervalHours)
	}

	go m.loop("cleanup", time.Duration(m.cfg.CleanupIntervalHours)*time.Hour, func() {
		if _, err := m.cleanup.Run(); err != nil {
			log.Printf("[CLEANUP ERROR] run failed: %v", err)
		}
	})
	log.Printf("[WORKERS] cleanup worker started (interval=%dh)", m.cfg.CleanupIntervalHours)
}

// Stop 通知所有任务退出
func (m *Manager) Stop() {
	close(m.stop)
}

func (m *Manager) loop(name string, interval time.Duration, run func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.safeRun(name, run)
		case <-m.stop:
			log.Printf("[WORKERS] %s worker stopped", name)
			return
		}
	}
}

// safeRun 单轮执行的 panic 防护，后台任务崩溃不许拖垮进程
func (m *Manager) safeRun(name string, run func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[WORKERS ERROR] %s worker panic recovered: %v", name, r)
		}
	}()
	run()
}
