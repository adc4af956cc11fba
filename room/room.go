// room/room.go
package room

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/wfunc/triviaserver/clues"
	"github.com/wfunc/triviaserver/game"
	"github.com/wfunc/triviaserver/judge"
	"github.com/wfunc/triviaserver/logger"
	"github.com/wfunc/triviaserver/models"
	"github.com/wfunc/triviaserver/network"
	"github.com/wfunc/triviaserver/timer"
)

// Room 是一局游戏的核心结构：持有状态机并串行化所有对它的访问。
// Every entry point (player messages, timer callbacks, HTTP joins) takes
// the room mutex, so the game state machine itself runs single-threaded.
type Room struct {
	Code      string
	CreatedAt time.Time

	mu          sync.Mutex
	game        *game.Game
	broadcaster Broadcaster
	sched       *timer.Scheduler
	lastActive  time.Time
	closed      bool
}

// NewRoom 创建一个新房间
func NewRoom(code string, store clues.Store, broadcaster Broadcaster, sched *timer.Scheduler, timing game.Timing) *Room {
	now := time.Now()
	r := &Room{
		Code:        code,
		CreatedAt:   now,
		broadcaster: broadcaster,
		sched:       sched,
		lastActive:  now,
	}
	r.game = game.New(code, store, judge.Matches, r, r, timing)
	return r
}

// SetFinishHook forwards the completed-game record hook.
func (r *Room) SetFinishHook(fn func(*models.GameRecord)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.game.SetFinishHook(fn)
}

// --- 实现 game.Emitter 接口 ---

// Broadcast marshals an event once and fans it out to the whole room.
func (r *Room) Broadcast(msgID uint16, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Log.Errorf("room %s: marshal event %d: %v", r.Code, msgID, err)
		return
	}
	if err := r.broadcaster.BroadcastToRoom(r.Code, msgID, data); err != nil {
		logger.Log.Warnf("room %s: broadcast %d: %v", r.Code, msgID, err)
	}
}

// SendTo delivers an event to a single player.
func (r *Room) SendTo(playerID string, msgID uint16, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Log.Errorf("room %s: marshal event %d: %v", r.Code, msgID, err)
		return
	}
	if err := r.broadcaster.SendToPlayer(r.Code, playerID, msgID, data); err != nil {
		logger.Log.Debugf("room %s: send %d to %s: %v", r.Code, msgID, playerID, err)
	}
}

// --- 实现 game.Scheduler 接口 ---

// After schedules a deferred callback. The callback re-enters the room
// through the mutex and is dropped if the room has been closed, so timers
// never outlive their room. Generation checks inside the game handle
// everything finer-grained.
func (r *Room) After(delay time.Duration, fn func()) {
	r.sched.After(delay, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.closed {
			return
		}
		fn()
	})
}

// --- 房间核心逻辑 ---

// AddPlayer registers a new player in the lobby.
func (r *Room) AddPlayer(playerID, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastActive = time.Now()
	return r.game.AddPlayer(playerID, name)
}

// HasPlayer reports whether the player belongs to this room's game.
func (r *Room) HasPlayer(playerID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.game.HasPlayer(playerID)
}

// Bind marks a player connected and catches them up: the full state goes
// to the connecting player, a join notice to everyone else.
func (r *Room) Bind(playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastActive = time.Now()

	r.game.MarkConnected(playerID, true)
	r.SendTo(playerID, network.MsgTypeGameState, game.GameStateEvent{
		State:  r.game.Snapshot(),
		YourID: playerID,
	})
	if p, exists := r.game.Players[playerID]; exists {
		r.Broadcast(network.MsgTypePlayerJoined, game.PlayerJoinedEvent{Player: p.Snapshot()})
	}
}

// HandleDisconnect marks the player disconnected. Their score and seat
// survive; the game never pauses for an absent player.
func (r *Room) HandleDisconnect(playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, exists := r.game.Players[playerID]
	if !exists {
		return
	}
	r.game.MarkConnected(playerID, false)
	r.Broadcast(network.MsgTypePlayerLeft, game.PlayerLeftEvent{
		PlayerID:   playerID,
		PlayerName: p.Name,
	})
}

// Handle routes one inbound message into the game.
func (r *Room) Handle(playerID string, msgID uint16, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastActive = time.Now()
	r.game.Dispatch(playerID, msgID, data)
}

// Phase returns the current game phase.
func (r *Room) Phase() game.Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.game.Phase()
}

// PlayerCount returns the number of seated players.
func (r *Room) PlayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.game.PlayerCount()
}

// LastActive returns the last time the room saw any traffic.
func (r *Room) LastActive() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastActive
}

// Snapshot returns the public game state.
func (r *Room) Snapshot() game.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.game.Snapshot()
}

// Close shuts the room down. Pending timer callbacks see closed and drop.
func (r *Room) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
}
