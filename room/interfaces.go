package room

// Broadcaster defines the interface for delivering messages to a room.
// This is defined here to break the import cycle between room and broadcast.
type Broadcaster interface {
	BroadcastToRoom(roomCode string, msgID uint16, data []byte) error
	SendToPlayer(roomCode, playerID string, msgID uint16, data []byte) error
}
