package state

import (
	"fmt"
	"sync"
)

// Frame is one snapshot of the order conversation. Each push copies the
// previous frame, so popping restores every selection made before it.
type Frame struct {
	Step      Step
	Platform  string
	Category  string
	ServiceID int64
	Link      string
	Quantity  int
	Phone     string
	OrderID   string
	MessageID int
}

// Store holds per-chat conversation stacks.
type Store interface {
	// Current returns the top frame for a chat, lazily creating the
	// root frame on first access.
	Current(chatID int64) Frame
	// Push copies the current frame, applies mutate, and pushes the
	// result if the step transition is legal.
	Push(chatID int64, mutate func(*Frame)) (Frame, error)
	// Pop removes the top frame and returns the newly exposed one.
	// The root frame is never removed.
	Pop(chatID int64) Frame
	// Reset discards everything back to the root frame.
	Reset(chatID int64)
}

// memoryStore is the in-process Store. State is per-conversation and
// does not need to survive a restart; orders past payment live in the
// database, not here.
type memoryStore struct {
	mu     sync.RWMutex
	stacks map[int64][]Frame
}

// NewStore creates an empty in-memory conversation store.
func NewStore() Store {
	return &memoryStore{stacks: make(map[int64][]Frame)}
}

func rootFrame() Frame {
	return Frame{Step: StepPlatform}
}

func (s *memoryStore) stack(chatID int64) []Frame {
	st, ok := s.stacks[chatID]
	if !ok || len(st) == 0 {
		st = []Frame{rootFrame()}
		s.stacks[chatID] = st
	}
	return st
}

func (s *memoryStore) Current(chatID int64) Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.stack(chatID)
	return st[len(st)-1]
}

func (s *memoryStore) Push(chatID int64, mutate func(*Frame)) (Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.stack(chatID)
	top := st[len(st)-1]

	next := top // copy, inherits every prior selection
	if mutate != nil {
		mutate(&next)
	}
	if !CanAdvance(top.Step, next.Step) {
		return top, fmt.Errorf("illegal step transition %s -> %s", top.Step, next.Step)
	}
	s.stacks[chatID] = append(st, next)
	return next, nil
}

func (s *memoryStore) Pop(chatID int64) Frame {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.stack(chatID)
	if len(st) > 1 {
		st = st[:len(st)-1]
		s.stacks[chatID] = st
	}
	return st[len(st)-1]
}

func (s *memoryStore) Reset(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stacks[chatID] = []Frame{rootFrame()}
}
