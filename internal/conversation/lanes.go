package conversation

import (
	"fmt"
	"sync"
)

// Lanes serializes work per conversation. Tasks enqueued for the same
// conversation run in enqueue order and never concurrently; tasks for
// distinct conversations are unrelated and may interleave freely.
//
// Each lane is an append-only chain: an enqueue attaches its task as the
// continuation of the current chain tail and becomes the new tail, so an
// idle conversation costs a single map entry regardless of how much work
// has flowed through it.
type Lanes struct {
	mu    sync.Mutex
	tails map[string]chan struct{}
}

// NewLanes creates an empty lane registry.
func NewLanes() *Lanes {
	return &Lanes{tails: make(map[string]chan struct{})}
}

// Enqueue schedules task on the conversation's lane and returns a channel
// that yields the task's outcome. A task that returns an error or panics
// never blocks subsequent tasks for that conversation; the failure is
// captured in the result and the lane continues.
func (l *Lanes) Enqueue(conversationID string, task func() error) <-chan error {
	done := make(chan struct{})
	result := make(chan error, 1)

	l.mu.Lock()
	prev := l.tails[conversationID]
	l.tails[conversationID] = done
	l.mu.Unlock()

	go func() {
		defer close(done)
		if prev != nil {
			<-prev
		}
		defer func() {
			if r := recover(); r != nil {
				result <- fmt.Errorf("task panicked: %v", r)
			}
		}()
		result <- task()
	}()

	return result
}

// LaneCount reports how many conversations have ever had a lane. Exposed for
// observability only.
func (l *Lanes) LaneCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tails)
}
