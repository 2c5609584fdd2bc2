// file: services/detection_service_test.go
package services

import (
	"strings"
	"testing"
	"time"

	"CYBERCOM/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func grantConsent(t *testing.T, ledger *ConsentLedger, userIDs ...uint32) {
	t.Helper()
	for _, uid := range userIDs {
		require.NoError(t, ledger.Grant(uid))
	}
}

func seedPairedSubmissions(t *testing.T, db *gorm.DB, challengeID uint32, ip string) {
	t.Helper()
	now := time.Now()
	subs := []models.Submission{
		{ChallengeID: challengeID, UserID: 10, IP: ip, Type: models.SubmissionIncorrect, ProvidedText: "flag{guess_one}", SubmittedAt: now.Add(-5 * time.Second)},
		{ChallengeID: challengeID, UserID: 11, IP: ip, Type: models.SubmissionIncorrect, ProvidedText: "flag{guess_one}", SubmittedAt: now.Add(-2 * time.Second)},
	}
	for i := range subs {
		require.NoError(t, db.Create(&subs[i]).Error)
	}
}

func TestDetectionCreatesFindingWithConsent(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	cfg.SuspicionThreshold = 0.3 // 降低阈值让单信号也能落库
	ledger := NewConsentLedger(db)
	svc := NewDetectionService(db, cfg)

	grantConsent(t, ledger, 10, 11)
	seedPairedSubmissions(t, db, 1, "203.0.113.9")

	result := svc.Run()
	assert.Greater(t, result.Created, 0)

	var findings []models.SuspicionFinding
	require.NoError(t, db.Find(&findings).Error)
	require.NotEmpty(t, findings)

	for _, f := range findings {
		assert.Equal(t, uint32(1), f.ChallengeID)
		assert.Nil(t, f.Verdict, "new findings are pending review")
		assert.NotEmpty(t, f.RiskLevel)
		assert.GreaterOrEqual(t, f.ConfidenceScore, cfg.SuspicionThreshold)
	}
}

func TestDetectionEvidenceNeverContainsRawPII(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	cfg.SuspicionThreshold = 0.1
	cfg.SimilarityThreshold = 0.9
	ledger := NewConsentLedger(db)
	svc := NewDetectionService(db, cfg)

	grantConsent(t, ledger, 10, 11)

	rawIP := "203.0.113.77"
	rawSig := "Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/119.0.0.0"
	rawText := "flag{definitely_shared_answer}"
	now := time.Now()
	subs := []models.Submission{
		{ChallengeID: 2, UserID: 10, IP: rawIP, ClientSignature: rawSig, Type: models.SubmissionIncorrect, ProvidedText: rawText, SubmittedAt: now.Add(-4 * time.Second)},
		{ChallengeID: 2, UserID: 11, IP: rawIP, ClientSignature: rawSig, Type: models.SubmissionIncorrect, ProvidedText: rawText, SubmittedAt: now.Add(-1 * time.Second)},
	}
	for i := range subs {
		require.NoError(t, db.Create(&subs[i]).Error)
	}

	result := svc.Run()
	require.Greater(t, result.Created, 0)

	var findings []models.SuspicionFinding
	require.NoError(t, db.Find(&findings).Error)
	require.NotEmpty(t, findings)

	for _, f := range findings {
		blob := string(f.Evidence)
		assert.False(t, strings.Contains(blob, rawIP), "raw IP leaked into evidence: %s", blob)
		assert.False(t, strings.Contains(blob, "Mozilla"), "raw client signature leaked into evidence: %s", blob)
		assert.False(t, strings.Contains(blob, "definitely_shared_answer"), "raw submission text leaked into evidence: %s", blob)
	}
}

func TestDetectionSkipsWithoutConsent(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	cfg.SuspicionThreshold = 0.1
	svc := NewDetectionService(db, cfg)

	// 无人授权：检测照常运行，但零落库
	seedPairedSubmissions(t, db, 1, "203.0.113.9")

	result := svc.Run()
	assert.Zero(t, result.Created)

	var count int64
	require.NoError(t, db.Model(&models.SuspicionFinding{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDetectionSkipsWhenOneUserLacksConsent(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	cfg.SuspicionThreshold = 0.1
	ledger := NewConsentLedger(db)
	svc := NewDetectionService(db, cfg)

	// 只有一方授权，候选对整体放弃
	grantConsent(t, ledger, 10)
	seedPairedSubmissions(t, db, 1, "203.0.113.9")

	result := svc.Run()
	assert.Zero(t, result.Created)
}

func TestDetectionWithdrawalBeforeRunCreatesNothing(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	cfg.SuspicionThreshold = 0.1
	ledger := NewConsentLedger(db)
	svc := NewDetectionService(db, cfg)

	grantConsent(t, ledger, 10, 11)
	require.NoError(t, ledger.Withdraw(11))

	seedPairedSubmissions(t, db, 1, "203.0.113.9")

	result := svc.Run()
	assert.Zero(t, result.Created, "withdrawal completed before the run guarantees zero findings")
}

func TestDetectionScanCeiling(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	cfg.MaxScanRows = 10
	svc := NewDetectionService(db, cfg)

	now := time.Now()
	for i := 0; i < 25; i++ {
		sub := models.Submission{
			ChallengeID:  uint32(i + 1), // 各题独立，避免产生候选对
			UserID:       uint32(i + 1),
			Type:         models.SubmissionIncorrect,
			ProvidedText: "x",
			SubmittedAt:  now.Add(-time.Duration(i) * time.Second),
		}
		require.NoError(t, db.Create(&sub).Error)
	}

	result := svc.Run()
	assert.Equal(t, 10, result.Scanned, "scan must never exceed the hard ceiling")
	assert.True(t, result.CeilingHit)
}

func TestDetectionIgnoresSubmissionsOutsideWindow(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	cfg.SuspicionThreshold = 0.1
	ledger := NewConsentLedger(db)
	svc := NewDetectionService(db, cfg)

	grantConsent(t, ledger, 10, 11)

	// 窗口是 2×分析周期；一小时前的提交不参与
	old := time.Now().Add(-time.Hour)
	subs := []models.Submission{
		{ChallengeID: 1, UserID: 10, IP: "203.0.113.9", Type: models.SubmissionIncorrect, ProvidedText: "same", SubmittedAt: old},
		{ChallengeID: 1, UserID: 11, IP: "203.0.113.9", Type: models.SubmissionIncorrect, ProvidedText: "same", SubmittedAt: old.Add(time.Second)},
	}
	for i := range subs {
		require.NoError(t, db.Create(&subs[i]).Error)
	}

	result := svc.Run()
	assert.Zero(t, result.Scanned)
	assert.Zero(t, result.Created)
}

func TestDetectionDuplicateWrongIgnoresCorrect(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	cfg.SuspicionThreshold = 0.1
	ledger := NewConsentLedger(db)
	svc := NewDetectionService(db, cfg)

	grantConsent(t, ledger, 10, 11)

	// 相同的"正确"答案不构成 duplicate_wrong_answer 信号
	now := time.Now()
	subs := []models.Submission{
		{ChallengeID: 3, UserID: 10, Type: models.SubmissionCorrect, ProvidedText: "flag{real}", SubmittedAt: now.Add(-5 * time.Second)},
		{ChallengeID: 3, UserID: 11, Type: models.SubmissionCorrect, ProvidedText: "flag{real}", SubmittedAt: now.Add(-2 * time.Second)},
	}
	for i := range subs {
		require.NoError(t, db.Create(&subs[i]).Error)
	}

	svc.Run()

	var count int64
	require.NoError(t, db.Model(&models.SuspicionFinding{}).
		Where("detection_type = ?", models.DetectionDuplicateWrong).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDetermineRiskLevel(t *testing.T) {
	assert.Equal(t, models.RiskHigh, DetermineRiskLevel(0.9))
	assert.Equal(t, models.RiskHigh, DetermineRiskLevel(0.75))
	assert.Equal(t, models.RiskMedium, DetermineRiskLevel(0.6))
	assert.Equal(t, models.RiskMedium, DetermineRiskLevel(0.5))
	assert.Equal(t, models.RiskLow, DetermineRiskLevel(0.49))
	assert.Equal(t, models.RiskLow, DetermineRiskLevel(0.0))
}

func TestCombineConfidenceCapsAtOne(t *testing.T) {
	assert.InDelta(t, 0.5, combineConfidence(WeightSameOrigin, WeightTemporalProximity), 1e-9)
	assert.InDelta(t, 1.0, combineConfidence(0.4, 0.3, 0.2, 0.1, 0.4), 1e-9)
}
