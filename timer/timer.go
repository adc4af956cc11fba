// timer/timer.go
package timer

import (
	"container/heap"
	"sync"
	"time"
)

// tickResolution bounds how late a callback can fire. Phase timeouts are
// measured in seconds, so tens of milliseconds of slack is invisible.
const tickResolution = 20 * time.Millisecond

type task struct {
	id      int64
	execute time.Time
	fn      func()
	index   int
}

type taskQueue []*task

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	return q[i].execute.Before(q[j].execute)
}

func (q taskQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *taskQueue) Push(x interface{}) {
	n := len(*q)
	t := x.(*task)
	t.index = n
	*q = append(*q, t)
}

func (q *taskQueue) Pop() interface{} {
	old := *q
	n := len(old)
	t := old[n-1]
	t.index = -1
	*q = old[0 : n-1]
	return t
}

// Scheduler runs delayed callbacks from a single dispatch goroutine, one at
// a time in due order. Rooms rely on that: a timer callback never overlaps
// another timer callback, so generation checks plus the room lock fully
// linearize timer effects with message handling.
type Scheduler struct {
	queue  taskQueue
	mutex  sync.Mutex
	nextID int64
	done   chan struct{}
	once   sync.Once
}

func NewScheduler() *Scheduler {
	s := &Scheduler{
		queue:  make(taskQueue, 0),
		nextID: 1,
		done:   make(chan struct{}),
	}
	heap.Init(&s.queue)
	go s.dispatch()
	return s
}

// After schedules fn to run once after delay and returns a handle usable
// with Cancel. Superseded phase timers are normally left to expire and
// no-op on their generation check; Cancel exists for room teardown.
func (s *Scheduler) After(delay time.Duration, fn func()) int64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	t := &task{
		id:      s.nextID,
		execute: time.Now().Add(delay),
		fn:      fn,
	}
	s.nextID++

	heap.Push(&s.queue, t)
	return t.id
}

func (s *Scheduler) Cancel(id int64) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for i, t := range s.queue {
		if t.id == id {
			heap.Remove(&s.queue, i)
			break
		}
	}
}

// Pending returns the number of scheduled callbacks that have not fired.
func (s *Scheduler) Pending() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.queue.Len()
}

func (s *Scheduler) Stop() {
	s.once.Do(func() {
		close(s.done)
	})
}

func (s *Scheduler) dispatch() {
	ticker := time.NewTicker(tickResolution)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			for {
				t := s.popDue()
				if t == nil {
					break
				}
				// 串行执行，保证回调之间不重叠
				t.fn()
			}

		case <-s.done:
			return
		}
	}
}

func (s *Scheduler) popDue() *task {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.queue.Len() == 0 || s.queue[0].execute.After(time.Now()) {
		return nil
	}
	return heap.Pop(&s.queue).(*task)
}
