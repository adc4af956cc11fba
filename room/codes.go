package room

import (
	"math/rand"
	"strings"
)

const (
	roomCodeLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	roomCodeLength  = 4

	playerIDLetters = "abcdefghijklmnopqrstuvwxyz0123456789"
	playerIDLength  = 8
)

// newRoomCode generates a 4-letter join code. Uniqueness is the caller's
// problem: the registry retries under its lock until the code is free.
func newRoomCode() string {
	return randomString(roomCodeLetters, roomCodeLength)
}

// newPlayerID generates a player identifier. The keyspace is large enough
// that collisions within a 4-player room are not a practical concern.
func newPlayerID() string {
	return randomString(playerIDLetters, playerIDLength)
}

func randomString(alphabet string, length int) string {
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		b.WriteByte(alphabet[rand.Intn(len(alphabet))])
	}
	return b.String()
}
