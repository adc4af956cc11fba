package logger

import (
	"go.uber.org/zap"
)

var Log *zap.SugaredLogger

func Init() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize zap logger: " + err.Error())
	}
	Log = logger.Sugar()
}

// InitDevelopment switches to the console encoder. Used by the probe client
// and handy in tests that want readable output.
func InitDevelopment() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("failed to initialize zap logger: " + err.Error())
	}
	Log = logger.Sugar()
}

// Sync flushes any buffered entries. Call before process exit.
func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}

func init() {
	// 保证测试环境下 Log 不为 nil
	Init()
}
