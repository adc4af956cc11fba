package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Game     GameConfig     `mapstructure:"game"`
}

type ServerConfig struct {
	HTTPAddress    string `mapstructure:"http_address"`
	RPCAddress     string `mapstructure:"rpc_address"`
	MetricsAddress string `mapstructure:"metrics_address"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

// GameConfig holds the phase durations of the trivia state machine and the
// room lifecycle knobs. All of them have defaults, so a config file only
// needs the sections it wants to override.
type GameConfig struct {
	ClueDisplayTime time.Duration `mapstructure:"clue_display_time"`
	BuzzWindowTime  time.Duration `mapstructure:"buzz_window_time"`
	AnswerTime      time.Duration `mapstructure:"answer_time"`
	DDWagerTime     time.Duration `mapstructure:"dd_wager_time"`
	FJWagerTime     time.Duration `mapstructure:"fj_wager_time"`
	FJAnswerTime    time.Duration `mapstructure:"fj_answer_time"`
	RoomIdleTTL     time.Duration `mapstructure:"room_idle_ttl"`
}

func setDefaults() {
	viper.SetDefault("server.http_address", ":8080")
	viper.SetDefault("server.rpc_address", ":8081")
	viper.SetDefault("server.metrics_address", ":9100")

	// 游戏各阶段时长
	viper.SetDefault("game.clue_display_time", 10*time.Second)
	viper.SetDefault("game.buzz_window_time", 10*time.Second)
	viper.SetDefault("game.answer_time", 15*time.Second)
	viper.SetDefault("game.dd_wager_time", 10*time.Second)
	viper.SetDefault("game.fj_wager_time", 30*time.Second)
	viper.SetDefault("game.fj_answer_time", 30*time.Second)
	viper.SetDefault("game.room_idle_ttl", 30*time.Minute)
}

func LoadConfig(path string) (config *Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	setDefaults()
	viper.AutomaticEnv()

	if err = viper.ReadInConfig(); err != nil {
		// 没有配置文件时使用默认值
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return
		}
		err = nil
	}

	err = viper.Unmarshal(&config)
	return
}
