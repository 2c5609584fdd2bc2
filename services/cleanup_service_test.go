// file: services/cleanup_service_test.go
package services

import (
	"testing"
	"time"

	"CYBERCOM/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanupDeletesOnlyExpiredRows(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	cfg.RetentionDays = 30
	svc := NewCleanupService(db, cfg)

	old := time.Now().AddDate(0, 0, -31)
	fresh := time.Now().AddDate(0, 0, -1)

	findings := []models.SuspicionFinding{
		{UserID1: 1, ChallengeID: 1, DetectionType: models.DetectionSameOrigin, ConfidenceScore: 0.8, RiskLevel: models.RiskHigh, Evidence: []byte(`{}`), CreatedAt: old},
		{UserID1: 2, ChallengeID: 1, DetectionType: models.DetectionSameOrigin, ConfidenceScore: 0.8, RiskLevel: models.RiskHigh, Evidence: []byte(`{}`), CreatedAt: fresh},
	}
	for i := range findings {
		require.NoError(t, db.Create(&findings[i]).Error)
	}
	snapshots := []models.ChallengeHealthSnapshot{
		{ChallengeID: 1, Status: models.HealthHealthy, Timestamp: old},
		{ChallengeID: 1, Status: models.HealthHealthy, Timestamp: fresh},
	}
	for i := range snapshots {
		require.NoError(t, db.Create(&snapshots[i]).Error)
	}

	result, err := svc.Run()
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.FindingsDeleted)
	assert.Equal(t, int64(1), result.SnapshotsDeleted)

	var remaining int64
	require.NoError(t, db.Model(&models.SuspicionFinding{}).Count(&remaining).Error)
	assert.Equal(t, int64(1), remaining)
}

func TestCleanupNeverTouchesFirstBlood(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	cfg.RetentionDays = 1
	svc := NewCleanupService(db, cfg)

	// 一血记录远超保留期也必须保留
	uid := uint32(1)
	record := models.FirstBloodRecord{
		SubmissionID:  1,
		ChallengeID:   1,
		UserID:        &uid,
		PrestigeScore: 150,
		Timestamp:     time.Now().AddDate(0, 0, -365),
	}
	require.NoError(t, db.Create(&record).Error)

	_, err := svc.Run()
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.FirstBloodRecord{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
