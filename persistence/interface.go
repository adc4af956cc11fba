// persistence/interface.go
package persistence

import (
	"fmt"

	"github.com/wfunc/triviaserver/models"
	"gorm.io/gorm"
)

// Database 数据库接口
type Database interface {
	SaveGameRecord(record *models.GormGameRecord) error
	GetPlayerStats(name string) (*models.PlayerStats, error)
	TopPlayers(limit int) ([]models.PlayerStats, error)
	Transaction(fn func(tx *gorm.DB) error) error
	Close() error
}

// 错误定义
var (
	ErrRecordNotFound = fmt.Errorf("record not found")
)
