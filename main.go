package main

import (
	netrpc "net/rpc"
	"time"

	"github.com/wfunc/triviaserver/broadcast"
	"github.com/wfunc/triviaserver/clues"
	"github.com/wfunc/triviaserver/config"
	"github.com/wfunc/triviaserver/game"
	"github.com/wfunc/triviaserver/logger"
	"github.com/wfunc/triviaserver/models"
	"github.com/wfunc/triviaserver/monitor"
	"github.com/wfunc/triviaserver/persistence"
	"github.com/wfunc/triviaserver/room"
	triviarpc "github.com/wfunc/triviaserver/rpc"
	"github.com/wfunc/triviaserver/server"
	"github.com/wfunc/triviaserver/services"
	"github.com/wfunc/triviaserver/session"
	"github.com/wfunc/triviaserver/timer"
)

func main() {
	// Initialize logger
	logger.Init()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Log.Fatalf("Failed to load configuration: %v", err)
	}

	// Clue source
	store, err := clues.NewPQStore(
		cfg.Database.Postgres.Host,
		cfg.Database.Postgres.Port,
		cfg.Database.Postgres.User,
		cfg.Database.Postgres.Password,
		cfg.Database.Postgres.DBName,
	)
	if err != nil {
		logger.Log.Fatalf("Failed to open clue store: %v", err)
	}
	defer store.Close()

	// Game record storage
	db, err := persistence.NewGormPostgreSQL(
		cfg.Database.Postgres.Host,
		cfg.Database.Postgres.Port,
		cfg.Database.Postgres.User,
		cfg.Database.Postgres.Password,
		cfg.Database.Postgres.DBName,
	)
	if err != nil {
		logger.Log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Log.Info("Database connection successful.")

	recordService := services.NewRecordService(db)

	// Core wiring: sessions feed the broadcaster, rooms feed the scheduler.
	sessionManager := session.NewManager()
	broadcaster := broadcast.NewRoomBroadcaster(sessionManager)
	sched := timer.NewScheduler()
	defer sched.Stop()

	timing := game.Timing{
		ClueDisplay: cfg.Game.ClueDisplayTime,
		BuzzWindow:  cfg.Game.BuzzWindowTime,
		Answer:      cfg.Game.AnswerTime,
		DDWager:     cfg.Game.DDWagerTime,
		FJWager:     cfg.Game.FJWagerTime,
		FJAnswer:    cfg.Game.FJAnswerTime,
	}

	registry := room.NewRegistry(store, broadcaster, sched, timing, cfg.Game.RoomIdleTTL)

	// Monitoring
	mon := monitor.NewMonitor("triviaserver")
	mon.StartServer(cfg.Server.MetricsAddress)
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			mon.SetActiveRooms(registry.Count())
		}
	}()

	// Finished games go to storage off the room path; a failed insert
	// costs a record, not a game.
	registry.SetGameOverHook(func(record *models.GameRecord) {
		mon.IncGamesCompleted()
		go func() {
			if err := recordService.Save(record); err != nil {
				logger.Log.Warnf("room %s: save game record: %v", record.RoomCode, err)
			}
		}()
	})
	registry.StartReaper(time.Minute)
	defer registry.StopReaper()

	// Admin RPC
	rpcServer, err := triviarpc.NewServer(cfg.Server.RPCAddress)
	if err != nil {
		logger.Log.Fatalf("Failed to create RPC server: %v", err)
	}
	if err := netrpc.Register(triviarpc.NewAdminService(registry, recordService)); err != nil {
		logger.Log.Fatalf("Failed to register RPC service: %v", err)
	}
	go rpcServer.Start()
	defer rpcServer.Stop()

	// Start Server
	gameServer := server.NewGameServer(cfg.Server.HTTPAddress, registry, sessionManager, mon)
	logger.Log.Infof("Starting trivia server on %s", cfg.Server.HTTPAddress)
	if err := gameServer.Start(); err != nil {
		logger.Log.Fatalf("Failed to start server: %v", err)
	}
}
