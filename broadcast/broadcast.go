// broadcast/broadcast.go
package broadcast

import (
	"errors"

	"github.com/wfunc/triviaserver/logger"
	"github.com/wfunc/triviaserver/session"
)

var (
	ErrPlayerNotFound = errors.New("player not connected")
)

// 广播接口
type Broadcaster interface {
	BroadcastToRoom(roomCode string, msgID uint16, data []byte) error
	SendToPlayer(roomCode, playerID string, msgID uint16, data []byte) error
}

// 基于会话的广播器
type RoomBroadcaster struct {
	sessionManager *session.Manager
}

func NewRoomBroadcaster(sessionManager *session.Manager) *RoomBroadcaster {
	return &RoomBroadcaster{
		sessionManager: sessionManager,
	}
}

// BroadcastToRoom delivers a message to every session bound to the room.
// Send failures are logged and skipped; the read loop owns disconnect
// handling.
func (b *RoomBroadcaster) BroadcastToRoom(roomCode string, msgID uint16, data []byte) error {
	sessions := b.sessionManager.GetByRoom(roomCode)

	for _, s := range sessions {
		if err := s.Send(msgID, data); err != nil {
			logger.Log.Warnf("room %s: send to %s failed: %v", roomCode, s.PlayerID, err)
			continue
		}
	}
	return nil
}

// SendToPlayer delivers a message to one player's session. A disconnected
// player simply misses the message; they catch up from the snapshot on
// reconnect.
func (b *RoomBroadcaster) SendToPlayer(roomCode, playerID string, msgID uint16, data []byte) error {
	s, exists := b.sessionManager.GetByPlayer(roomCode, playerID)
	if !exists {
		return ErrPlayerNotFound
	}
	return s.Send(msgID, data)
}
