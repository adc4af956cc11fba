// models/gorm_models.go
package models

import (
	"gorm.io/gorm"
)

// GormGameRecord 对局记录模型
type GormGameRecord struct {
	gorm.Model
	RoomCode   string `gorm:"index;not null"`
	WinnerID   string
	WinnerName string
	Players    string `gorm:"type:jsonb;not null"` // marshalled []PlayerResult
	Rounds     int    `gorm:"default:0"`
	Duration   int    `gorm:"default:0"` // 对局时长(秒)
}

// GormPlayerStat 玩家统计模型，按玩家名聚合
type GormPlayerStat struct {
	gorm.Model
	Name       string `gorm:"uniqueIndex;not null"`
	Games      int    `gorm:"default:0"`
	Wins       int    `gorm:"default:0"`
	HighScore  int    `gorm:"default:0"`
	TotalScore int64  `gorm:"default:0"`
}
