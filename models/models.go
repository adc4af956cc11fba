// models/models.go
package models

import (
	"time"
)

// PlayerSnapshot 玩家快照（用于事件广播）
type PlayerSnapshot struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// PlayerResult is one player's final standing in a finished game.
type PlayerResult struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
	Winner   bool   `json:"winner"`
}

// GameRecord 对局记录
type GameRecord struct {
	RoomCode   string         `json:"room_code"`
	WinnerID   string         `json:"winner_id"`
	WinnerName string         `json:"winner_name"`
	Players    []PlayerResult `json:"players"`
	Rounds     int            `json:"rounds"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
}

// PlayerStats 玩家累计统计
type PlayerStats struct {
	Name       string `json:"name"`
	Games      int    `json:"games"`
	Wins       int    `json:"wins"`
	HighScore  int    `json:"high_score"`
	TotalScore int64  `json:"total_score"`
}
