package timer

import (
	"sync"
	"testing"
	"time"
)

func TestScheduler_FiresInOrder(t *testing.T) {
	s := NewScheduler()
	defer s.Stop()

	var mu sync.Mutex
	var order []int
	done := make(chan struct{})

	s.After(120*time.Millisecond, func() {
		mu.Lock()
		order = append(order, 2)
		mu.Unlock()
		close(done)
	})
	s.After(40*time.Millisecond, func() {
		mu.Lock()
		order = append(order, 1)
		mu.Unlock()
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timers did not fire")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("expected callbacks in due order [1 2], got %v", order)
	}
}

func TestScheduler_Cancel(t *testing.T) {
	s := NewScheduler()
	defer s.Stop()

	fired := make(chan struct{}, 1)
	id := s.After(50*time.Millisecond, func() {
		fired <- struct{}{}
	})
	s.Cancel(id)

	select {
	case <-fired:
		t.Error("cancelled callback should not fire")
	case <-time.After(200 * time.Millisecond):
	}

	if s.Pending() != 0 {
		t.Errorf("expected empty queue after cancel, got %d pending", s.Pending())
	}
}

func TestScheduler_StopHaltsDispatch(t *testing.T) {
	s := NewScheduler()

	fired := make(chan struct{}, 1)
	s.After(100*time.Millisecond, func() {
		fired <- struct{}{}
	})
	s.Stop()

	select {
	case <-fired:
		t.Error("callback should not fire after Stop")
	case <-time.After(300 * time.Millisecond):
	}
}
