package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"pennypilot/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the durable GoalStore backed by a local SQLite file.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

var _ GoalStore = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadGoals implements GoalStore. Rows that fail to parse (bad dates,
// corrupt contribution history) are logged and skipped rather than failing
// the whole load.
func (r *SQLiteRepository) LoadGoals(ctx context.Context) ([]core.Goal, error) {
	rows, err := r.queries.ListGoals(ctx)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}

	goals := make([]core.Goal, 0, len(rows))
	for _, row := range rows {
		g, err := rowToGoal(row)
		if err != nil {
			slog.WarnContext(ctx, "Skipping malformed goal record", "id", row.ID, "error", err)
			continue
		}
		goals = append(goals, g)
	}

	slog.InfoContext(ctx, "Goals loaded from SQLite", "count", len(goals))
	return goals, nil
}

// SaveGoals implements GoalStore.
func (r *SQLiteRepository) SaveGoals(ctx context.Context, goals []core.Goal) error {
	rows := make([]goalRow, len(goals))
	for i, g := range goals {
		row, err := goalToRow(g, i)
		if err != nil {
			return fmt.Errorf("encode goal %s: %w", g.ID, err)
		}
		rows[i] = row
	}

	if err := r.queries.ReplaceGoals(ctx, rows); err != nil {
		return fmt.Errorf("replace goals: %w", err)
	}

	slog.InfoContext(ctx, "Goals saved to SQLite", "count", len(goals))
	return nil
}

// GetGoal retrieves a single stored goal by ID. Used by the backup worker
// to snapshot individual goals referenced in change events.
func (r *SQLiteRepository) GetGoal(ctx context.Context, id string) (core.Goal, error) {
	row, err := r.queries.GetGoal(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Goal{}, core.ErrGoalNotFound
	}
	if err != nil {
		return core.Goal{}, fmt.Errorf("get goal by id: %w", err)
	}
	return rowToGoal(row)
}

func goalToRow(g core.Goal, position int) (goalRow, error) {
	steps := make([]int64, len(g.StepsCompleted))
	for i, s := range g.StepsCompleted {
		steps[i] = s.Cents
	}
	stepsJSON, err := json.Marshal(steps)
	if err != nil {
		return goalRow{}, fmt.Errorf("marshal steps: %w", err)
	}

	return goalRow{
		ID:          g.ID,
		Position:    int64(position),
		Name:        g.Name,
		AmountCents: g.Amount.Cents,
		Frequency:   string(g.Frequency),
		StartDate:   g.StartDate.ISO(),
		DueDate:     g.DueDate.ISO(),
		StepsCents:  string(stepsJSON),
		Completed:   g.Completed,
		Celebrated:  g.Celebrated,
	}, nil
}

func rowToGoal(row goalRow) (core.Goal, error) {
	start, err := core.ParseDate(row.StartDate)
	if err != nil {
		return core.Goal{}, fmt.Errorf("parse start date: %w", err)
	}
	due, err := core.ParseDate(row.DueDate)
	if err != nil {
		return core.Goal{}, fmt.Errorf("parse due date: %w", err)
	}

	var stepCents []int64
	if err := json.Unmarshal([]byte(row.StepsCents), &stepCents); err != nil {
		return core.Goal{}, fmt.Errorf("parse steps: %w", err)
	}
	steps := make([]core.Money, len(stepCents))
	for i, c := range stepCents {
		steps[i] = core.Money{Cents: c}
	}

	return core.Goal{
		ID:             row.ID,
		Name:           row.Name,
		Amount:         core.Money{Cents: row.AmountCents},
		Frequency:      core.Frequency(row.Frequency),
		StartDate:      start,
		DueDate:        due,
		StepsCompleted: steps,
		Completed:      row.Completed,
		Celebrated:     row.Celebrated,
	}, nil
}
