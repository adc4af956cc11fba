// persistence/gorm_postgresql.go
package persistence

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/wfunc/triviaserver/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormPostgreSQL 使用GORM的PostgreSQL实现
type GormPostgreSQL struct {
	db *gorm.DB
}

// NewGormPostgreSQL 创建GORM PostgreSQL数据库连接
func NewGormPostgreSQL(host string, port int, user, password, dbname string) (*GormPostgreSQL, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	// 配置GORM日志
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags), // io writer
		logger.Config{
			SlowThreshold: time.Second,   // 慢SQL阈值
			LogLevel:      logger.Silent, // 日志级别
			Colorful:      false,         // 禁用彩色打印
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}

	// 获取通用数据库对象 sql.DB
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// 设置连接池
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// 自动迁移表结构
	if err := autoMigrate(db); err != nil {
		return nil, err
	}

	return &GormPostgreSQL{db: db}, nil
}

// autoMigrate 自动迁移表结构
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.GormGameRecord{},
		&models.GormPlayerStat{},
	)
}

// SaveGameRecord 保存对局记录
func (p *GormPostgreSQL) SaveGameRecord(record *models.GormGameRecord) error {
	return p.db.Create(record).Error
}

// GetPlayerStats 按玩家名查询累计统计
func (p *GormPostgreSQL) GetPlayerStats(name string) (*models.PlayerStats, error) {
	var stat models.GormPlayerStat
	if err := p.db.Where("name = ?", name).First(&stat).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	return &models.PlayerStats{
		Name:       stat.Name,
		Games:      stat.Games,
		Wins:       stat.Wins,
		HighScore:  stat.HighScore,
		TotalScore: stat.TotalScore,
	}, nil
}

// TopPlayers 按胜场排序的排行榜
func (p *GormPostgreSQL) TopPlayers(limit int) ([]models.PlayerStats, error) {
	var stats []models.GormPlayerStat
	if err := p.db.Order("wins DESC, high_score DESC").Limit(limit).Find(&stats).Error; err != nil {
		return nil, err
	}

	result := make([]models.PlayerStats, 0, len(stats))
	for _, stat := range stats {
		result = append(result, models.PlayerStats{
			Name:       stat.Name,
			Games:      stat.Games,
			Wins:       stat.Wins,
			HighScore:  stat.HighScore,
			TotalScore: stat.TotalScore,
		})
	}
	return result, nil
}

// Close 关闭数据库连接
func (p *GormPostgreSQL) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// 添加事务支持
func (p *GormPostgreSQL) Transaction(fn func(tx *gorm.DB) error) error {
	return p.db.Transaction(fn)
}
