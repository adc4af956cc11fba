// room/registry.go
package room

import (
	"errors"
	"sync"
	"time"

	"github.com/wfunc/triviaserver/clues"
	"github.com/wfunc/triviaserver/game"
	"github.com/wfunc/triviaserver/logger"
	"github.com/wfunc/triviaserver/models"
	"github.com/wfunc/triviaserver/timer"
)

var (
	ErrRoomNotFound = errors.New("room not found")
)

// Registry 管理所有房间
type Registry struct {
	rooms map[string]*Room
	mutex sync.RWMutex

	store       clues.Store
	broadcaster Broadcaster
	sched       *timer.Scheduler
	timing      game.Timing
	idleTTL     time.Duration

	// onGameOver receives the record of every finished game. Optional.
	onGameOver func(*models.GameRecord)

	stopReaper chan struct{}
	reaperOnce sync.Once
}

// NewRegistry 创建一个新的房间管理器
func NewRegistry(store clues.Store, broadcaster Broadcaster, sched *timer.Scheduler, timing game.Timing, idleTTL time.Duration) *Registry {
	return &Registry{
		rooms:       make(map[string]*Room),
		store:       store,
		broadcaster: broadcaster,
		sched:       sched,
		timing:      timing,
		idleTTL:     idleTTL,
		stopReaper:  make(chan struct{}),
	}
}

// SetGameOverHook registers a callback for finished games. Call before
// any room is created.
func (re *Registry) SetGameOverHook(fn func(*models.GameRecord)) {
	re.onGameOver = fn
}

// CreateRoom builds a room with a fresh join code and seats the host.
func (re *Registry) CreateRoom(hostName string) (roomCode, playerID string, err error) {
	re.mutex.Lock()
	defer re.mutex.Unlock()

	for {
		roomCode = newRoomCode()
		if _, taken := re.rooms[roomCode]; !taken {
			break
		}
	}

	r := NewRoom(roomCode, re.store, re.broadcaster, re.sched, re.timing)
	if re.onGameOver != nil {
		r.SetFinishHook(re.onGameOver)
	}

	playerID = newPlayerID()
	if err := r.AddPlayer(playerID, hostName); err != nil {
		return "", "", err
	}

	re.rooms[roomCode] = r
	logger.Log.Infof("room %s created by %s", roomCode, hostName)
	return roomCode, playerID, nil
}

// JoinRoom seats a player in an existing lobby.
func (re *Registry) JoinRoom(roomCode, name string) (playerID string, err error) {
	re.mutex.RLock()
	r, exists := re.rooms[roomCode]
	re.mutex.RUnlock()
	if !exists {
		return "", ErrRoomNotFound
	}

	playerID = newPlayerID()
	if err := r.AddPlayer(playerID, name); err != nil {
		return "", err
	}

	logger.Log.Infof("room %s: %s joined as %s", roomCode, name, playerID)
	return playerID, nil
}

// Get 获取一个房间
func (re *Registry) Get(roomCode string) (*Room, bool) {
	re.mutex.RLock()
	defer re.mutex.RUnlock()
	r, exists := re.rooms[roomCode]
	return r, exists
}

// Remove closes and drops a room.
func (re *Registry) Remove(roomCode string) {
	re.mutex.Lock()
	defer re.mutex.Unlock()

	if r, exists := re.rooms[roomCode]; exists {
		r.Close()
		delete(re.rooms, roomCode)
		logger.Log.Infof("room %s removed", roomCode)
	}
}

// Count returns the number of live rooms.
func (re *Registry) Count() int {
	re.mutex.RLock()
	defer re.mutex.RUnlock()
	return len(re.rooms)
}

// List returns the codes of all live rooms.
func (re *Registry) List() []string {
	re.mutex.RLock()
	defer re.mutex.RUnlock()

	codes := make([]string, 0, len(re.rooms))
	for code := range re.rooms {
		codes = append(codes, code)
	}
	return codes
}

// StartReaper launches the idle-room sweep. Rooms with no traffic for the
// TTL are closed whatever their phase: abandoned lobbies and finished
// games go the same way.
func (re *Registry) StartReaper(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				re.reapIdle()
			case <-re.stopReaper:
				return
			}
		}
	}()
}

// StopReaper halts the sweep goroutine.
func (re *Registry) StopReaper() {
	re.reaperOnce.Do(func() {
		close(re.stopReaper)
	})
}

func (re *Registry) reapIdle() {
	cutoff := time.Now().Add(-re.idleTTL)

	re.mutex.RLock()
	var stale []string
	for code, r := range re.rooms {
		if r.LastActive().Before(cutoff) {
			stale = append(stale, code)
		}
	}
	re.mutex.RUnlock()

	for _, code := range stale {
		logger.Log.Infof("room %s idle past TTL, reaping", code)
		re.Remove(code)
	}
}
