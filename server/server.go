// server/server.go
package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/wfunc/triviaserver/game"
	"github.com/wfunc/triviaserver/logger"
	"github.com/wfunc/triviaserver/monitor"
	"github.com/wfunc/triviaserver/network"
	"github.com/wfunc/triviaserver/room"
	"github.com/wfunc/triviaserver/session"
)

const heartbeatInterval = 30 * time.Second

type GameServer struct {
	addr           string
	upgrader       websocket.Upgrader
	registry       *room.Registry
	sessionManager *session.Manager
	mon            *monitor.Monitor
	shutdownChan   chan struct{}
}

func NewGameServer(addr string, registry *room.Registry, sessionManager *session.Manager, mon *monitor.Monitor) *GameServer {
	return &GameServer{
		addr:           addr,
		registry:       registry,
		sessionManager: sessionManager,
		mon:            mon,
		shutdownChan:   make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // 允许所有跨域请求
			},
		},
	}
}

func (s *GameServer) Start() error {
	router := httprouter.New()
	router.POST("/rooms", s.handleCreateRoom)
	router.POST("/rooms/:code/join", s.handleJoinRoom)
	router.GET("/rooms/:code", s.handleRoomState)
	router.GET("/ws/:code/:player", s.handleWebSocket)

	logger.Log.Infof("Game server listening on %s", s.addr)
	return http.ListenAndServe(s.addr, router)
}

func (s *GameServer) Shutdown() {
	close(s.shutdownChan)
}

// --- REST ---

type nameRequest struct {
	Name string `json:"name"`
}

type createRoomResponse struct {
	RoomCode string `json:"room_code"`
	PlayerID string `json:"player_id"`
}

type joinRoomResponse struct {
	PlayerID string `json:"player_id"`
}

func (s *GameServer) handleCreateRoom(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	name, ok := decodeName(w, r)
	if !ok {
		return
	}

	roomCode, playerID, err := s.registry.CreateRoom(name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not create room")
		return
	}
	writeJSON(w, http.StatusCreated, createRoomResponse{RoomCode: roomCode, PlayerID: playerID})
}

func (s *GameServer) handleJoinRoom(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	name, ok := decodeName(w, r)
	if !ok {
		return
	}

	roomCode := strings.ToUpper(ps.ByName("code"))
	playerID, err := s.registry.JoinRoom(roomCode, name)
	switch err {
	case nil:
		writeJSON(w, http.StatusOK, joinRoomResponse{PlayerID: playerID})
	case room.ErrRoomNotFound:
		writeError(w, http.StatusNotFound, "room not found")
	case game.ErrRoomFull:
		writeError(w, http.StatusConflict, "room is full")
	case game.ErrGameInProgress:
		writeError(w, http.StatusConflict, "game already in progress")
	default:
		writeError(w, http.StatusInternalServerError, "could not join room")
	}
}

func (s *GameServer) handleRoomState(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	roomCode := strings.ToUpper(ps.ByName("code"))
	rm, exists := s.registry.Get(roomCode)
	if !exists {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}
	writeJSON(w, http.StatusOK, rm.Snapshot())
}

// --- WebSocket ---

func (s *GameServer) handleWebSocket(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	roomCode := strings.ToUpper(ps.ByName("code"))
	playerID := ps.ByName("player")

	rm, exists := s.registry.Get(roomCode)
	if !exists {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}
	if !rm.HasPlayer(playerID) {
		writeError(w, http.StatusForbidden, "join the room before connecting")
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}

	s.handleConnection(conn, rm, playerID)
}

func (s *GameServer) handleConnection(conn *websocket.Conn, rm *room.Room, playerID string) {
	// A reconnecting player replaces their previous session.
	if old, exists := s.sessionManager.GetByPlayer(rm.Code, playerID); exists {
		s.sessionManager.Remove(old.GetID())
		old.Close()
	}

	wsConn := network.NewWSConnection(conn)
	wsConn.SetHeartbeat(heartbeatInterval)

	sess := session.NewSession(uuid.New().String(), wsConn)
	sess.Bind(rm.Code, playerID)
	s.sessionManager.Add(sess)
	s.mon.IncOnlinePlayers()

	logger.Log.Infof("room %s: %s connected from %s, session %s", rm.Code, playerID, wsConn.RemoteAddr(), sess.GetID())

	// Catch the player up before any new events flow.
	rm.Bind(playerID)

	defer func() {
		logger.Log.Infof("room %s: %s disconnected, session %s", rm.Code, playerID, sess.GetID())
		s.sessionManager.Remove(sess.GetID())
		s.mon.DecOnlinePlayers()
		// A reconnect replaces the session before the old read loop dies;
		// only report the player gone when nothing replaced us.
		if _, replaced := s.sessionManager.GetByPlayer(rm.Code, playerID); !replaced {
			rm.HandleDisconnect(playerID)
		}
		wsConn.Close()
	}()

	for {
		select {
		case <-s.shutdownChan:
			return
		default:
			packet, err := wsConn.ReadPacket()
			if err != nil {
				return
			}
			s.handlePacket(sess, rm, packet)
		}
	}
}

func (s *GameServer) handlePacket(sess *session.Session, rm *room.Room, packet *network.Packet) {
	if packet.MsgID == network.MsgTypeHeartbeat {
		sess.Touch()
		return
	}

	s.mon.IncMessagesReceived()
	if packet.MsgID == network.MsgTypeBuzz {
		s.mon.IncBuzzes()
	}

	start := time.Now()
	rm.Handle(sess.PlayerID, packet.MsgID, packet.Data)
	s.mon.ObserveMessageLatency(time.Since(start))
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Warnf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func decodeName(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return "", false
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return "", false
	}
	if len(name) > 32 {
		name = name[:32]
	}
	return name, true
}
