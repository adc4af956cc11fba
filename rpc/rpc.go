package rpc

import (
	"net"
	"net/rpc"

	"github.com/wfunc/triviaserver/logger"
	"github.com/wfunc/triviaserver/models"
	"github.com/wfunc/triviaserver/room"
	"github.com/wfunc/triviaserver/services"
)

// Server manages the RPC listener.
type Server struct {
	listener net.Listener
	address  string
}

// NewServer creates a new RPC server. Services are registered by the
// caller before Start.
func NewServer(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: listener,
		address:  addr,
	}, nil
}

// Start begins listening for RPC requests.
func (s *Server) Start() {
	logger.Log.Infof("RPC server listening on %s", s.address)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			// Check if the error is due to the listener being closed.
			if _, ok := err.(*net.OpError); ok {
				logger.Log.Info("RPC server listener closed.")
				return
			}
			logger.Log.Errorf("RPC server accept error: %v", err)
			continue
		}
		go rpc.ServeConn(conn)
	}
}

// Stop closes the RPC listener.
func (s *Server) Stop() {
	if s.listener != nil {
		logger.Log.Info("Stopping RPC server.")
		s.listener.Close()
	}
}

// AdminService exposes operational queries over net/rpc.
type AdminService struct {
	registry *room.Registry
	records  *services.RecordService
}

// NewAdminService creates a new AdminService.
func NewAdminService(registry *room.Registry, records *services.RecordService) *AdminService {
	return &AdminService{registry: registry, records: records}
}

type RoomInfo struct {
	Code    string
	Phase   string
	Players int
}

type ListRoomsArgs struct{}

type ListRoomsReply struct {
	Rooms []RoomInfo
}

// ListRooms reports every live room with its phase and headcount.
func (as *AdminService) ListRooms(args *ListRoomsArgs, reply *ListRoomsReply) error {
	for _, code := range as.registry.List() {
		r, exists := as.registry.Get(code)
		if !exists {
			continue
		}
		reply.Rooms = append(reply.Rooms, RoomInfo{
			Code:    r.Code,
			Phase:   string(r.Phase()),
			Players: r.PlayerCount(),
		})
	}
	return nil
}

type PlayerStatsArgs struct {
	Name string
}

type PlayerStatsReply struct {
	Stats *models.PlayerStats
}

// GetPlayerStats returns a player's lifetime record.
func (as *AdminService) GetPlayerStats(args *PlayerStatsArgs, reply *PlayerStatsReply) error {
	stats, err := as.records.GetPlayerStats(args.Name)
	if err != nil {
		return err
	}
	reply.Stats = stats
	return nil
}

type LeaderboardArgs struct {
	Limit int
}

type LeaderboardReply struct {
	Players []models.PlayerStats
}

// Leaderboard returns the top players by wins.
func (as *AdminService) Leaderboard(args *LeaderboardArgs, reply *LeaderboardReply) error {
	players, err := as.records.Leaderboard(args.Limit)
	if err != nil {
		return err
	}
	reply.Players = players
	return nil
}
