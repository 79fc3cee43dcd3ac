package storage

import (
	"context"
	"database/sql"
)

// goalRow mirrors one row of the goals table.
type goalRow struct {
	ID          string
	Position    int64
	Name        string
	AmountCents int64
	Frequency   string
	StartDate   string
	DueDate     string
	StepsCents  string
	Completed   bool
	Celebrated  bool
}

// Queries wraps the raw SQL statements used by the repository.
type Queries struct {
	db *sql.DB
}

func New(db *sql.DB) *Queries {
	return &Queries{db: db}
}

const listGoalsSQL = `
SELECT id, position, name, amount_cents, frequency, start_date, due_date, steps_cents, completed, celebrated
FROM goals
ORDER BY position
`

func (q *Queries) ListGoals(ctx context.Context) ([]goalRow, error) {
	rows, err := q.db.QueryContext(ctx, listGoalsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []goalRow
	for rows.Next() {
		var r goalRow
		if err := rows.Scan(&r.ID, &r.Position, &r.Name, &r.AmountCents, &r.Frequency,
			&r.StartDate, &r.DueDate, &r.StepsCents, &r.Completed, &r.Celebrated); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

const insertGoalSQL = `
INSERT INTO goals (id, position, name, amount_cents, frequency, start_date, due_date, steps_cents, completed, celebrated, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
`

func (q *Queries) insertGoalTx(ctx context.Context, tx *sql.Tx, r goalRow) error {
	_, err := tx.ExecContext(ctx, insertGoalSQL,
		r.ID, r.Position, r.Name, r.AmountCents, r.Frequency,
		r.StartDate, r.DueDate, r.StepsCents, r.Completed, r.Celebrated)
	return err
}

const deleteAllGoalsSQL = `DELETE FROM goals`

// ReplaceGoals swaps the whole stored collection inside one transaction.
// The collection is small (a user's goal list), so last-writer-wins on the
// full set is the contract, not an optimization target.
func (q *Queries) ReplaceGoals(ctx context.Context, rows []goalRow) error {
	tx, err := q.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, deleteAllGoalsSQL); err != nil {
		return err
	}
	for _, r := range rows {
		if err := q.insertGoalTx(ctx, tx, r); err != nil {
			return err
		}
	}
	return tx.Commit()
}

const getGoalSQL = `
SELECT id, position, name, amount_cents, frequency, start_date, due_date, steps_cents, completed, celebrated
FROM goals
WHERE id = ?
`

func (q *Queries) GetGoal(ctx context.Context, id string) (goalRow, error) {
	var r goalRow
	err := q.db.QueryRowContext(ctx, getGoalSQL, id).Scan(
		&r.ID, &r.Position, &r.Name, &r.AmountCents, &r.Frequency,
		&r.StartDate, &r.DueDate, &r.StepsCents, &r.Completed, &r.Celebrated)
	return r, err
}
