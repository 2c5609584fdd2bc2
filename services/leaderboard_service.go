// file: services/leaderboard_service.go
package services

import (
	"CYBERCOM/models"
	"gorm.io/gorm"
)

// LeaderboardService 一血威望排行的聚合查询
type LeaderboardService struct {
	db *gorm.DB
}

func NewLeaderboardService(db *gorm.DB) *LeaderboardService {
	return &LeaderboardService{db: db}
}

// LeaderboardEntry 排行榜单行。个人榜填 UserID，战队榜填 TeamID。
type LeaderboardEntry struct {
	Rank            int     `json:"rank"`
	UserID          *uint32 `json:"user_id,omitempty"`
	TeamID          *uint32 `json:"team_id,omitempty"`
	TotalPrestige   int64   `json:"total_prestige"`
	FirstBloodCount int64   `json:"first_blood_count"`
}

// TopUsers 个人威望榜：SUM(prestige) 降序，名次在应用层编排
func (s *LeaderboardService) TopUsers(limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	type row struct {
		UserID          uint32
		TotalPrestige   int64
		FirstBloodCount int64
	}
	var rows []row
	err := s.db.Model(&models.FirstBloodRecord{}).
		Select("user_id, SUM(prestige_score) as total_prestige, COUNT(id) as first_blood_count").
		Where("user_id IS NOT NULL").
		Group("user_id").
		Order("total_prestige desc").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(rows))
	for i := range rows {
		uid := rows[i].UserID
		entries = append(entries, LeaderboardEntry{
			Rank:            i + 1,
			UserID:          &uid,
			TotalPrestige:   rows[i].TotalPrestige,
			FirstBloodCount: rows[i].FirstBloodCount,
		})
	}
	return entries, nil
}

// TopTeams 战队威望榜
func (s *LeaderboardService) TopTeams(limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	type row struct {
		TeamID          uint32
		TotalPrestige   int64
		FirstBloodCount int64
	}
	var rows []row
	err := s.db.Model(&models.FirstBloodRecord{}).
		Select("team_id, SUM(prestige_score) as total_prestige, COUNT(id) as first_blood_count").
		Where("team_id IS NOT NULL").
		Group("team_id").
		Order("total_prestige desc").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(rows))
	for i := range rows {
		tid := rows[i].TeamID
		entries = append(entries, LeaderboardEntry{
			Rank:            i + 1,
			TeamID:          &tid,
			TotalPrestige:   rows[i].TotalPrestige,
			FirstBloodCount: rows[i].FirstBloodCount,
		})
	}
	return entries, nil
}
