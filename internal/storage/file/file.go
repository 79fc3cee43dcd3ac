// Package file implements the GoalStore port on a single JSON document,
// the lightweight stand-in for the browser-local storage the product
// originally relied on. Useful for development and as the default backend.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"pennypilot/internal/core"
	"pennypilot/internal/storage"
)

type Store struct {
	mu   sync.Mutex
	path string
}

var _ storage.GoalStore = (*Store)(nil)

func New(path string) *Store {
	return &Store{path: path}
}

// goalRecord is the persisted layout: one record per goal with ISO date
// strings and cent-denominated amounts.
type goalRecord struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	AmountCents    int64   `json:"amountCents"`
	Frequency      string  `json:"frequency"`
	StartDate      string  `json:"startDate"`
	DueDate        string  `json:"dueDate"`
	StepsCompleted []int64 `json:"stepsCompleted"`
	Completed      bool    `json:"completed"`
	Celebrated     bool    `json:"celebrated"`
}

// LoadGoals implements storage.GoalStore. A missing or malformed file is not
// an error: it logs the parse failure and returns an empty collection, so a
// corrupt store degrades to a fresh start instead of crashing the engine.
func (s *Store) LoadGoals(ctx context.Context) ([]core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return []core.Goal{}, nil
	}
	if err != nil {
		slog.WarnContext(ctx, "Goal store unreadable, starting empty", "path", s.path, "error", err)
		return []core.Goal{}, nil
	}

	var records []goalRecord
	if err := json.Unmarshal(data, &records); err != nil {
		slog.WarnContext(ctx, "Goal store malformed, starting empty", "path", s.path, "error", err)
		return []core.Goal{}, nil
	}

	goals := make([]core.Goal, 0, len(records))
	for _, rec := range records {
		g, err := recordToGoal(rec)
		if err != nil {
			slog.WarnContext(ctx, "Skipping malformed goal record", "id", rec.ID, "error", err)
			continue
		}
		goals = append(goals, g)
	}
	return goals, nil
}

// SaveGoals implements storage.GoalStore. The whole collection is written
// atomically via a temp file rename.
func (s *Store) SaveGoals(ctx context.Context, goals []core.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]goalRecord, len(goals))
	for i, g := range goals {
		records[i] = goalToRecord(g)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal goals: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create store directory: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write goal store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace goal store: %w", err)
	}

	slog.DebugContext(ctx, "Goals saved to file", "path", s.path, "count", len(goals))
	return nil
}

func goalToRecord(g core.Goal) goalRecord {
	steps := make([]int64, len(g.StepsCompleted))
	for i, s := range g.StepsCompleted {
		steps[i] = s.Cents
	}
	return goalRecord{
		ID:             g.ID,
		Name:           g.Name,
		AmountCents:    g.Amount.Cents,
		Frequency:      string(g.Frequency),
		StartDate:      g.StartDate.ISO(),
		DueDate:        g.DueDate.ISO(),
		StepsCompleted: steps,
		Completed:      g.Completed,
		Celebrated:     g.Celebrated,
	}
}

func recordToGoal(rec goalRecord) (core.Goal, error) {
	start, err := core.ParseDate(rec.StartDate)
	if err != nil {
		return core.Goal{}, fmt.Errorf("parse start date: %w", err)
	}
	due, err := core.ParseDate(rec.DueDate)
	if err != nil {
		return core.Goal{}, fmt.Errorf("parse due date: %w", err)
	}
	steps := make([]core.Money, len(rec.StepsCompleted))
	for i, c := range rec.StepsCompleted {
		steps[i] = core.Money{Cents: c}
	}
	return core.Goal{
		ID:             rec.ID,
		Name:           rec.Name,
		Amount:         core.Money{Cents: rec.AmountCents},
		Frequency:      core.Frequency(rec.Frequency),
		StartDate:      start,
		DueDate:        due,
		StepsCompleted: steps,
		Completed:      rec.Completed,
		Celebrated:     rec.Celebrated,
	}, nil
}
