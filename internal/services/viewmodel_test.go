package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pennypilot/internal/core"
)

func TestBuildGoalView(t *testing.T) {
	g := core.Goal{
		ID:        "g1",
		Name:      "Laptop",
		Amount:    core.Money{Cents: 50000},
		Frequency: core.Weekly,
		StartDate: core.NewDate(2024, 1, 1),
		DueDate:   core.NewDate(2024, 1, 29),
		StepsCompleted: []core.Money{
			{Cents: 12500},
		},
	}

	view := BuildGoalView(g, true)
	assert.Equal(t, "Laptop", view.Name)
	assert.Equal(t, "$500.00", view.Amount)
	assert.Equal(t, "$125.00", view.TotalSaved)
	assert.Equal(t, float64(25), view.Percent)
	assert.True(t, view.Selected)
	require.Len(t, view.Milestones, 4)

	assert.True(t, view.Milestones[0].Completed)
	assert.False(t, view.Milestones[0].Current)
	assert.True(t, view.Milestones[1].Current, "first incomplete milestone is current")
	assert.False(t, view.Milestones[2].Current)
}

func TestBuildPath(t *testing.T) {
	done := core.Goal{
		ID: "a", Name: "Done", Amount: core.Money{Cents: 1000},
		Frequency: core.Weekly,
		StartDate: core.NewDate(2024, 1, 1), DueDate: core.NewDate(2024, 1, 8),
		StepsCompleted: []core.Money{{Cents: 1000}},
		Completed:      true,
	}
	current := core.Goal{
		ID: "b", Name: "Current", Amount: core.Money{Cents: 2000},
		Frequency: core.Weekly,
		StartDate: core.NewDate(2024, 1, 1), DueDate: core.NewDate(2024, 1, 15),
	}
	locked := core.Goal{
		ID: "c", Name: "Locked", Amount: core.Money{Cents: 3000},
		Frequency: core.Weekly,
		StartDate: core.NewDate(2024, 1, 1), DueDate: core.NewDate(2024, 1, 22),
	}

	path := BuildPath([]core.Goal{done, current, locked}, "b")
	require.Len(t, path, 3)

	assert.Equal(t, PathCompleted, path[0].Status)
	assert.Equal(t, PathCurrent, path[1].Status)
	assert.Equal(t, PathLocked, path[2].Status)
	assert.True(t, path[1].Selected)
	assert.False(t, path[0].Selected)
}

func TestBuildRewards(t *testing.T) {
	goals := make([]core.Goal, 5)
	for i := range goals {
		goals[i] = core.Goal{ID: string(rune('a' + i))}
	}
	goals[0].Completed = true
	goals[1].Completed = true

	rv := BuildRewards(goals)
	assert.Equal(t, 70, rv.XP, "10 per goal plus 10 per completion")
	assert.Equal(t, 0, rv.Level)
	assert.Len(t, rv.Badges, 2, "thresholds 1 and 5 reached")
	assert.Empty(t, rv.Uniforms)
}

func TestDashboard(t *testing.T) {
	store := &stubStore{}
	svc := newTestService(t, store)

	goal, err := svc.CreateGoal(context.Background(), CreateGoalInput{
		Name:      "Quick win",
		Amount:    core.Money{Cents: 1000},
		Frequency: core.Daily,
		StartDate: core.NewDate(2024, 1, 1),
		DueDate:   core.NewDate(2024, 1, 2),
	})
	require.NoError(t, err)

	view := svc.Dashboard(context.Background())
	require.NotNil(t, view.ActiveGoal)
	assert.Equal(t, goal.ID, view.ActiveGoal.ID)
	assert.False(t, view.Celebrate)
	assert.False(t, view.Degraded)
	require.Len(t, view.Path, 1)
	assert.Equal(t, PathCurrent, view.Path[0].Status)

	_, err = svc.CompleteMilestone(context.Background(), goal.ID, 0)
	require.NoError(t, err)

	view = svc.Dashboard(context.Background())
	assert.True(t, view.Celebrate, "first dashboard after completion celebrates")

	view = svc.Dashboard(context.Background())
	assert.False(t, view.Celebrate, "celebration is consumed")
}
