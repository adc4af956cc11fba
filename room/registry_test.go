package room

import (
	"fmt"
	"testing"
	"time"

	"github.com/wfunc/triviaserver/clues"
	"github.com/wfunc/triviaserver/game"
	"github.com/wfunc/triviaserver/network"
	"github.com/wfunc/triviaserver/timer"
)

// MockBroadcaster records everything sent through it.
type MockBroadcaster struct {
	broadcasts []uint16
	directs    []uint16
}

func (m *MockBroadcaster) BroadcastToRoom(roomCode string, msgID uint16, data []byte) error {
	m.broadcasts = append(m.broadcasts, msgID)
	return nil
}

func (m *MockBroadcaster) SendToPlayer(roomCode, playerID string, msgID uint16, data []byte) error {
	m.directs = append(m.directs, msgID)
	return nil
}

func (m *MockBroadcaster) lastBroadcast() uint16 {
	if len(m.broadcasts) == 0 {
		return 0
	}
	return m.broadcasts[len(m.broadcasts)-1]
}

// MockStore is a deterministic clue source.
type MockStore struct{}

func (s *MockStore) RandomClue(category string, value, round int) (*clues.Clue, error) {
	return &clues.Clue{
		Category: category,
		Value:    value,
		Round:    round,
		Question: fmt.Sprintf("clue for %s $%d", category, value),
		Answer:   fmt.Sprintf("answer %s %d", category, value),
	}, nil
}

func (s *MockStore) UsableCategories(round int) ([]string, error) {
	return []string{"SCIENCE", "HISTORY", "SPORTS", "MOVIES", "MUSIC", "GEOGRAPHY"}, nil
}

func (s *MockStore) FinalClue() (*clues.Clue, error) {
	return &clues.Clue{Category: "ASTRONOMY", Question: "final clue", Answer: "Neptune", Round: 3}, nil
}

func (s *MockStore) Close() error { return nil }

func newTestRegistry(t *testing.T, idleTTL time.Duration) (*Registry, *MockBroadcaster, *timer.Scheduler) {
	t.Helper()
	return newTestRegistryWithTiming(t, idleTTL, game.DefaultTiming())
}

func newTestRegistryWithTiming(t *testing.T, idleTTL time.Duration, timing game.Timing) (*Registry, *MockBroadcaster, *timer.Scheduler) {
	t.Helper()
	broadcaster := &MockBroadcaster{}
	sched := timer.NewScheduler()
	t.Cleanup(sched.Stop)
	registry := NewRegistry(&MockStore{}, broadcaster, sched, timing, idleTTL)
	return registry, broadcaster, sched
}

func TestRegistry_CreateAndGet(t *testing.T) {
	registry, _, _ := newTestRegistry(t, time.Hour)

	code, hostID, err := registry.CreateRoom("Alice")
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	if len(code) != roomCodeLength {
		t.Errorf("expected a %d-letter room code, got %q", roomCodeLength, code)
	}
	if len(hostID) != playerIDLength {
		t.Errorf("expected a %d-char player id, got %q", playerIDLength, hostID)
	}

	r, exists := registry.Get(code)
	if !exists {
		t.Fatal("Get should find the created room")
	}
	if !r.HasPlayer(hostID) {
		t.Error("the host should be seated in the new room")
	}
	if registry.Count() != 1 {
		t.Errorf("expected 1 room, got %d", registry.Count())
	}
}

func TestRegistry_JoinRoom(t *testing.T) {
	registry, _, _ := newTestRegistry(t, time.Hour)
	code, _, err := registry.CreateRoom("Alice")
	if err != nil {
		t.Fatal(err)
	}

	playerID, err := registry.JoinRoom(code, "Bob")
	if err != nil {
		t.Fatalf("JoinRoom: %v", err)
	}
	r, _ := registry.Get(code)
	if !r.HasPlayer(playerID) {
		t.Error("Bob should be seated after joining")
	}

	if _, err := registry.JoinRoom("ZZZZ", "Carol"); err != ErrRoomNotFound {
		t.Errorf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestRegistry_JoinRoom_Full(t *testing.T) {
	registry, _, _ := newTestRegistry(t, time.Hour)
	code, _, _ := registry.CreateRoom("Host")

	for i := 0; i < game.MaxPlayers-1; i++ {
		if _, err := registry.JoinRoom(code, fmt.Sprintf("Player %d", i)); err != nil {
			t.Fatalf("join %d: %v", i, err)
		}
	}

	if _, err := registry.JoinRoom(code, "One Too Many"); err != game.ErrRoomFull {
		t.Errorf("expected ErrRoomFull, got %v", err)
	}
}

func TestRegistry_JoinRoom_InProgress(t *testing.T) {
	registry, _, _ := newTestRegistry(t, time.Hour)
	code, hostID, _ := registry.CreateRoom("Alice")
	registry.JoinRoom(code, "Bob")

	r, _ := registry.Get(code)
	r.Handle(hostID, network.MsgTypeStartGame, nil)
	if r.Phase() != game.PhaseSelecting {
		t.Fatalf("expected the game to start, phase %s", r.Phase())
	}

	if _, err := registry.JoinRoom(code, "Carol"); err != game.ErrGameInProgress {
		t.Errorf("expected ErrGameInProgress, got %v", err)
	}
}

func TestRegistry_Remove(t *testing.T) {
	registry, _, _ := newTestRegistry(t, time.Hour)
	code, _, _ := registry.CreateRoom("Alice")

	registry.Remove(code)
	if _, exists := registry.Get(code); exists {
		t.Error("removed rooms should not be retrievable")
	}
	if registry.Count() != 0 {
		t.Errorf("expected 0 rooms, got %d", registry.Count())
	}

	// Removing twice is harmless.
	registry.Remove(code)
}

func TestRegistry_ReapsIdleRooms(t *testing.T) {
	registry, _, _ := newTestRegistry(t, time.Millisecond)
	code, _, _ := registry.CreateRoom("Alice")

	time.Sleep(5 * time.Millisecond)
	registry.reapIdle()

	if _, exists := registry.Get(code); exists {
		t.Error("idle rooms should be reaped after the TTL")
	}
}

func TestRoom_BindSendsStateAndAnnounces(t *testing.T) {
	registry, broadcaster, _ := newTestRegistry(t, time.Hour)
	code, hostID, _ := registry.CreateRoom("Alice")
	r, _ := registry.Get(code)

	r.Bind(hostID)

	if len(broadcaster.directs) == 0 || broadcaster.directs[len(broadcaster.directs)-1] != network.MsgTypeGameState {
		t.Error("binding should send the full state to the connecting player")
	}
	if broadcaster.lastBroadcast() != network.MsgTypePlayerJoined {
		t.Error("binding should announce the player to the room")
	}
}

func TestRoom_DisconnectKeepsSeat(t *testing.T) {
	registry, broadcaster, _ := newTestRegistry(t, time.Hour)
	code, hostID, _ := registry.CreateRoom("Alice")
	r, _ := registry.Get(code)

	r.HandleDisconnect(hostID)

	if broadcaster.lastBroadcast() != network.MsgTypePlayerLeft {
		t.Error("disconnecting should announce the departure")
	}
	if !r.HasPlayer(hostID) {
		t.Error("a disconnected player keeps their seat and score")
	}

	// Unknown players are ignored quietly.
	before := len(broadcaster.broadcasts)
	r.HandleDisconnect("ghost")
	if len(broadcaster.broadcasts) != before {
		t.Error("unknown players should not produce a departure notice")
	}
}

func TestRoom_ClosedRoomDropsTimers(t *testing.T) {
	timing := game.DefaultTiming()
	timing.ClueDisplay = 5 * time.Millisecond
	registry, _, _ := newTestRegistryWithTiming(t, time.Hour, timing)
	code, hostID, _ := registry.CreateRoom("Alice")
	registry.JoinRoom(code, "Bob")
	r, _ := registry.Get(code)

	r.Handle(hostID, network.MsgTypeStartGame, nil)
	r.Handle(hostID, network.MsgTypeSelectClue, []byte(`{"category":"SCIENCE","value":200}`))

	// Closing the room strands the clue-display timer; it must fire into
	// a no-op rather than mutate a dead game.
	registry.Remove(code)
	phase := r.Phase()

	time.Sleep(50 * time.Millisecond)
	if got := r.Phase(); got != phase {
		t.Errorf("closed room advanced from %s to %s", phase, got)
	}
}
