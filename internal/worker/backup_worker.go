// Package worker runs the background backup pipeline: it reacts to goal
// change events and periodically snapshots the full collection to the
// configured backup target.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"pennypilot/internal/amqp"
	"pennypilot/internal/backup"
	"pennypilot/internal/core"
	"pennypilot/internal/storage"
)

// BackupWorker consumes goal events and mirrors the goal collection to a
// remote backup. The event stream is a trigger, not the source of truth: on
// every event the worker re-reads the collection from storage, so missed or
// reordered events converge on the next snapshot.
type BackupWorker struct {
	store    storage.GoalStore
	snapshot backup.SnapshotWriter
	events   backup.EventLogger
}

func NewBackupWorker(store storage.GoalStore, snapshot backup.SnapshotWriter, events backup.EventLogger) *BackupWorker {
	return &BackupWorker{
		store:    store,
		snapshot: snapshot,
		events:   events,
	}
}

// HandleGoalEvent processes a single goal change event: log the audit row,
// then refresh the snapshot. Returning an error requeues the event.
func (w *BackupWorker) HandleGoalEvent(ctx context.Context, event *amqp.GoalEvent) error {
	slog.InfoContext(ctx, "Processing goal event",
		"kind", event.Kind,
		"goal_id", event.GoalID)

	goals, err := w.store.LoadGoals(ctx)
	if err != nil {
		return fmt.Errorf("load goals from storage: %w", err)
	}

	if w.events != nil {
		goal := findGoal(goals, event.GoalID)
		if err := w.events.AppendEvent(ctx, string(event.Kind), goal); err != nil {
			// Audit rows are best-effort; the snapshot below is what matters.
			slog.WarnContext(ctx, "Failed to append audit event",
				"kind", event.Kind,
				"goal_id", event.GoalID,
				"error", err)
		}
	}

	if err := w.snapshot.WriteSnapshot(ctx, goals); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// RunPeriodicSnapshots snapshots the collection on a fixed interval until the
// context is cancelled. It covers for lost events and worker downtime.
func (w *BackupWorker) RunPeriodicSnapshots(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "Started periodic snapshot loop", "interval", interval)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping periodic snapshot loop", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			if err := w.SnapshotNow(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic snapshot failed", "error", err)
			}
		}
	}
}

// SnapshotNow reads the collection and writes a full snapshot once. Called at
// worker startup to recover from events missed while the worker was down.
func (w *BackupWorker) SnapshotNow(ctx context.Context) error {
	goals, err := w.store.LoadGoals(ctx)
	if err != nil {
		return fmt.Errorf("load goals from storage: %w", err)
	}
	if err := w.snapshot.WriteSnapshot(ctx, goals); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	slog.InfoContext(ctx, "Snapshot completed", "goals", len(goals))
	return nil
}

// findGoal returns the matching goal, or a stub carrying only the ID when the
// goal is already gone (deletion events arrive after removal).
func findGoal(goals []core.Goal, id string) core.Goal {
	for _, g := range goals {
		if g.ID == id {
			return g
		}
	}
	return core.Goal{ID: id}
}
