package conversation

import "sync"

// ContextStore keeps the bounded rolling turn log per conversation. State is
// in-process and volatile: contexts are created lazily on first reference and
// live until the process restarts.
//
// Two independent bounds apply: retain is how many turns a conversation
// keeps, window is how many trailing turns a backend call forwards. Retain
// must not be smaller than window so trimming never discards turns still
// needed for the next call.
type ContextStore struct {
	mu     sync.Mutex
	retain int
	window int
	turns  map[string][]Turn
}

// NewContextStore creates a store with the given retention and window bounds.
func NewContextStore(retain, window int) *ContextStore {
	return &ContextStore{
		retain: retain,
		window: window,
		turns:  make(map[string][]Turn),
	}
}

// Get returns a copy of the full retained context, empty if absent.
func (s *ContextStore) Get(conversationID string) []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Turn(nil), s.turns[conversationID]...)
}

// Window returns a copy of the trailing turns forwarded to the backend.
func (s *ContextStore) Window(conversationID string) []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	turns := s.turns[conversationID]
	if len(turns) > s.window {
		turns = turns[len(turns)-s.window:]
	}
	return append([]Turn(nil), turns...)
}

// Append concatenates newTurns and trims from the front so the retained
// length never exceeds the configured bound.
func (s *ContextStore) Append(conversationID string, newTurns ...Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	turns := append(s.turns[conversationID], newTurns...)
	if len(turns) > s.retain {
		turns = turns[len(turns)-s.retain:]
	}
	s.turns[conversationID] = turns
}

// Len reports the retained turn count for a conversation.
func (s *ContextStore) Len(conversationID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.turns[conversationID])
}
