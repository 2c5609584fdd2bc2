// file: services/health_service_test.go
package services

import (
	"testing"
	"time"

	"CYBERCOM/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedChallenge(t *testing.T, db *gorm.DB, id uint32, state models.ChallengeState) {
	t.Helper()
	ch := models.Challenge{ID: id, ChallengeName: "web_misc", Value: 100, State: state}
	require.NoError(t, db.Create(&ch).Error)
}

func seedAttempts(t *testing.T, db *gorm.DB, challengeID uint32, correct, incorrect int) {
	t.Helper()
	now := time.Now()
	uid := uint32(1)
	for i := 0; i < correct; i++ {
		sub := models.Submission{ChallengeID: challengeID, UserID: uid, Type: models.SubmissionCorrect, SubmittedAt: now}
		require.NoError(t, db.Create(&sub).Error)
		uid++
	}
	for i := 0; i < incorrect; i++ {
		sub := models.Submission{ChallengeID: challengeID, UserID: uid, Type: models.SubmissionIncorrect, SubmittedAt: now}
		require.NoError(t, db.Create(&sub).Error)
		uid++
	}
}

func TestHealthScoring(t *testing.T) {
	cases := []struct {
		name       string
		correct    int
		incorrect  int
		wantScore  int
		wantStatus models.HealthStatus
	}{
		{"balanced challenge", 5, 15, 100, models.HealthHealthy},
		{"too easy", 19, 1, 80, models.HealthHealthy},
		{"too hard", 0, 20, 70, models.HealthHealthy},
		{"too easy and cold", 5, 0, 65, models.HealthUnderperforming},
		{"no attempts", 0, 0, 85, models.HealthHealthy},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db := newTestDB(t)
			svc := NewHealthService(db, testConfig())
			seedAttempts(t, db, 1, tc.correct, tc.incorrect)

			m, err := svc.Calculate(1)
			require.NoError(t, err)
			assert.Equal(t, int64(tc.correct), m.Solves)
			assert.Equal(t, int64(tc.correct+tc.incorrect), m.Attempts)
			assert.Equal(t, tc.wantScore, m.HealthScore)
			assert.Equal(t, tc.wantStatus, m.Status)
		})
	}
}

func TestHealthSnapshotSkipsHiddenChallenges(t *testing.T) {
	db := newTestDB(t)
	svc := NewHealthService(db, testConfig())

	seedChallenge(t, db, 1, models.ChallengeStateVisible)
	seedChallenge(t, db, 2, models.ChallengeStateHidden)
	seedAttempts(t, db, 1, 2, 8)

	created, err := svc.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	var snapshots []models.ChallengeHealthSnapshot
	require.NoError(t, db.Find(&snapshots).Error)
	require.Len(t, snapshots, 1)
	assert.Equal(t, uint32(1), snapshots[0].ChallengeID)
}

func TestHealthSnapshotDisabled(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	cfg.HealthEnabled = false
	svc := NewHealthService(db, cfg)

	seedChallenge(t, db, 1, models.ChallengeStateVisible)

	created, err := svc.Snapshot()
	require.NoError(t, err)
	assert.Zero(t, created)
}

func TestHealthLatestReturnsNewestPerChallenge(t *testing.T) {
	db := newTestDB(t)
	svc := NewHealthService(db, testConfig())

	old := time.Now().Add(-2 * time.Hour)
	newer := time.Now()
	rows := []models.ChallengeHealthSnapshot{
		{ChallengeID: 1, HealthScore: 50, Status: models.HealthUnderperforming, Timestamp: old},
		{ChallengeID: 1, HealthScore: 90, Status: models.HealthHealthy, Timestamp: newer},
		{ChallengeID: 2, HealthScore: 30, Status: models.HealthBroken, Timestamp: newer},
	}
	for i := range rows {
		require.NoError(t, db.Create(&rows[i]).Error)
	}

	latest, err := svc.Latest("")
	require.NoError(t, err)
	require.Len(t, latest, 2)
	for _, snap := range latest {
		if snap.ChallengeID == 1 {
			assert.Equal(t, 90, snap.HealthScore)
		}
	}

	broken, err := svc.Latest(string(models.HealthBroken))
	require.NoError(t, err)
	require.Len(t, broken, 1)
	assert.Equal(t, uint32(2), broken[0].ChallengeID)
}

func TestHealthHistoryNewestFirst(t *testing.T) {
	db := newTestDB(t)
	svc := NewHealthService(db, testConfig())

	base := time.Now().Add(-3 * time.Hour)
	for i := 0; i < 3; i++ {
		snap := models.ChallengeHealthSnapshot{
			ChallengeID: 1,
			HealthScore: 70 + i*10,
			Status:      models.HealthHealthy,
			Timestamp:   base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, db.Create(&snap).Error)
	}

	history, err := svc.History(1, 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 90, history[0].HealthScore)
	assert.Equal(t, 80, history[1].HealthScore)
}
