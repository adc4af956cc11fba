// session/session.go
package session

import (
	"sync"
	"time"

	"github.com/wfunc/triviaserver/network"
)

// Session 表示一条已接入的玩家连接
type Session struct {
	ID         string
	Conn       network.Connection
	PlayerID   string
	RoomCode   string
	CreatedAt  time.Time
	LastActive time.Time
	mutex      sync.RWMutex
}

func NewSession(id string, conn network.Connection) *Session {
	now := time.Now()
	return &Session{
		ID:         id,
		Conn:       conn,
		CreatedAt:  now,
		LastActive: now,
	}
}

// Bind attaches the session to a room and player once the websocket
// handshake has identified both.
func (s *Session) Bind(roomCode, playerID string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.RoomCode = roomCode
	s.PlayerID = playerID
}

func (s *Session) Send(msgID uint16, data []byte) error {
	s.LastActive = time.Now()
	return s.Conn.Send(msgID, data)
}

func (s *Session) Touch() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.LastActive = time.Now()
}

func (s *Session) GetID() string {
	return s.ID
}

func (s *Session) Close() error {
	return s.Conn.Close()
}

// Session管理器
type Manager struct {
	sessions map[string]*Session
	mutex    sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
	}
}

func (m *Manager) Add(session *Session) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.sessions[session.ID] = session
}

func (m *Manager) Remove(sessionID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.sessions, sessionID)
}

func (m *Manager) Get(sessionID string) (*Session, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	session, exists := m.sessions[sessionID]
	return session, exists
}

// GetByRoom returns every live session bound to the given room.
func (m *Manager) GetByRoom(roomCode string) []*Session {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	var result []*Session
	for _, session := range m.sessions {
		if session.RoomCode == roomCode {
			result = append(result, session)
		}
	}
	return result
}

// GetByPlayer returns the session bound to a player in a room, if any.
// A player reconnecting replaces their old session, so at most one match
// is expected.
func (m *Manager) GetByPlayer(roomCode, playerID string) (*Session, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, session := range m.sessions {
		if session.RoomCode == roomCode && session.PlayerID == playerID {
			return session, true
		}
	}
	return nil, false
}

func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.sessions)
}
