package worker

import (
	"context"
	"errors"
	"testing"

	"pennypilot/internal/amqp"
	"pennypilot/internal/backup/memory"
	"pennypilot/internal/core"
)

type stubStore struct {
	goals   []core.Goal
	loadErr error
}

func (s *stubStore) LoadGoals(_ context.Context) ([]core.Goal, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.goals, nil
}

func (s *stubStore) SaveGoals(_ context.Context, goals []core.Goal) error {
	s.goals = goals
	return nil
}

func testGoal(id string) core.Goal {
	return core.Goal{
		ID:        id,
		Name:      "Goal " + id,
		Amount:    core.Money{Cents: 50000},
		Frequency: core.Weekly,
		StartDate: core.NewDate(2024, 1, 1),
		DueDate:   core.NewDate(2024, 1, 29),
	}
}

func TestHandleGoalEvent_SnapshotsAndLogs(t *testing.T) {
	store := &stubStore{goals: []core.Goal{testGoal("a"), testGoal("b")}}
	target := memory.New()
	w := NewBackupWorker(store, target, target)

	event := amqp.NewGoalEvent(amqp.GoalStepCompleted, "a")
	if err := w.HandleGoalEvent(context.Background(), event); err != nil {
		t.Fatalf("HandleGoalEvent() error: %v", err)
	}

	snap := target.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("snapshot has %d goals, want 2", len(snap))
	}

	events := target.Events()
	if len(events) != 1 {
		t.Fatalf("event log has %d entries, want 1", len(events))
	}
	if events[0].Kind != string(amqp.GoalStepCompleted) {
		t.Errorf("event kind = %s", events[0].Kind)
	}
	if events[0].Goal.ID != "a" {
		t.Errorf("event goal = %s, want a", events[0].Goal.ID)
	}
}

func TestHandleGoalEvent_DeletedGoalStub(t *testing.T) {
	store := &stubStore{goals: []core.Goal{testGoal("a")}}
	target := memory.New()
	w := NewBackupWorker(store, target, target)

	// The deleted goal is already gone from the store.
	event := amqp.NewGoalEvent(amqp.GoalDeleted, "gone")
	if err := w.HandleGoalEvent(context.Background(), event); err != nil {
		t.Fatalf("HandleGoalEvent() error: %v", err)
	}

	events := target.Events()
	if len(events) != 1 || events[0].Goal.ID != "gone" {
		t.Fatalf("deletion event should carry the goal ID stub: %+v", events)
	}
}

func TestHandleGoalEvent_LoadFailureRequeues(t *testing.T) {
	store := &stubStore{loadErr: errors.New("db down")}
	target := memory.New()
	w := NewBackupWorker(store, target, target)

	event := amqp.NewGoalEvent(amqp.GoalCreated, "a")
	if err := w.HandleGoalEvent(context.Background(), event); err == nil {
		t.Fatal("HandleGoalEvent() should fail when the store is unreadable")
	}
}

func TestSnapshotNow(t *testing.T) {
	store := &stubStore{goals: []core.Goal{testGoal("a")}}
	target := memory.New()
	w := NewBackupWorker(store, target, nil)

	if err := w.SnapshotNow(context.Background()); err != nil {
		t.Fatalf("SnapshotNow() error: %v", err)
	}
	if len(target.Snapshot()) != 1 {
		t.Fatal("snapshot not written")
	}
}
