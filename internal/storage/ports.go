package storage

import (
	"context"

	"pennypilot/internal/core"
)

// GoalStore is the persistence port for the goal collection. The goal
// service calls SaveGoals after every mutating operation; implementations
// persist the whole collection last-writer-wins.
//
// Implementations must tolerate malformed or missing stored data by logging
// the parse failure and returning an empty collection rather than an error.
type GoalStore interface {
	LoadGoals(ctx context.Context) ([]core.Goal, error)
	SaveGoals(ctx context.Context, goals []core.Goal) error
}
