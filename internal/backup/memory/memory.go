// Package memory is an in-memory backup adapter for development and tests.
package memory

import (
	"context"
	"sync"

	"pennypilot/internal/backup"
	"pennypilot/internal/core"
)

type Event struct {
	Kind string
	Goal core.Goal
}

type Store struct {
	mu       sync.Mutex
	snapshot []core.Goal
	events   []Event
}

var (
	_ backup.SnapshotWriter = (*Store)(nil)
	_ backup.EventLogger    = (*Store)(nil)
)

func New() *Store {
	return &Store{}
}

func (s *Store) WriteSnapshot(_ context.Context, goals []core.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = make([]core.Goal, len(goals))
	for i, g := range goals {
		s.snapshot[i] = g.Clone()
	}
	return nil
}

func (s *Store) AppendEvent(_ context.Context, kind string, goal core.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, Event{Kind: kind, Goal: goal.Clone()})
	return nil
}

// Snapshot returns the last written snapshot.
func (s *Store) Snapshot() []core.Goal {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Goal, len(s.snapshot))
	copy(out, s.snapshot)
	return out
}

// Events returns the appended event log.
func (s *Store) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}
