// services/record_service.go
package services

import (
	"encoding/json"

	"github.com/wfunc/triviaserver/models"
	"github.com/wfunc/triviaserver/persistence"
	"gorm.io/gorm"
)

type RecordService struct {
	db persistence.Database
}

func NewRecordService(db persistence.Database) *RecordService {
	return &RecordService{db: db}
}

// Save persists a finished game and rolls it into each player's stats.
// One transaction covers both so a crash never counts a game without
// its record.
func (s *RecordService) Save(record *models.GameRecord) error {
	players, err := json.Marshal(record.Players)
	if err != nil {
		return err
	}

	row := &models.GormGameRecord{
		RoomCode:   record.RoomCode,
		WinnerID:   record.WinnerID,
		WinnerName: record.WinnerName,
		Players:    string(players),
		Rounds:     record.Rounds,
		Duration:   int(record.FinishedAt.Sub(record.StartedAt).Seconds()),
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(row).Error; err != nil {
			return err
		}

		for _, result := range record.Players {
			if err := s.updateStats(tx, result); err != nil {
				return err
			}
		}
		return nil
	})
}

// updateStats 更新单个玩家的累计统计
func (s *RecordService) updateStats(tx *gorm.DB, result models.PlayerResult) error {
	var stat models.GormPlayerStat
	err := tx.Where("name = ?", result.Name).First(&stat).Error

	if err == gorm.ErrRecordNotFound {
		stat = models.GormPlayerStat{
			Name:       result.Name,
			Games:      1,
			HighScore:  result.Score,
			TotalScore: int64(result.Score),
		}
		if result.Winner {
			stat.Wins = 1
		}
		return tx.Create(&stat).Error
	} else if err != nil {
		return err
	}

	updates := map[string]interface{}{
		"games":       gorm.Expr("games + 1"),
		"total_score": gorm.Expr("total_score + ?", result.Score),
		"high_score":  gorm.Expr("GREATEST(high_score, ?)", result.Score),
	}
	if result.Winner {
		updates["wins"] = gorm.Expr("wins + 1")
	}
	return tx.Model(&stat).Updates(updates).Error
}

// GetPlayerStats 查询玩家累计统计
func (s *RecordService) GetPlayerStats(name string) (*models.PlayerStats, error) {
	return s.db.GetPlayerStats(name)
}

// Leaderboard 查询排行榜
func (s *RecordService) Leaderboard(limit int) ([]models.PlayerStats, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return s.db.TopPlayers(limit)
}
