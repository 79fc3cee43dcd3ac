package services

import (
	"context"

	"pennypilot/internal/core"
	"pennypilot/internal/rewards"
	"pennypilot/internal/schedule"
)

// GoalPathStatus positions a goal on the progression path.
type GoalPathStatus string

const (
	// PathCompleted marks a goal whose schedule is fully stepped.
	PathCompleted GoalPathStatus = "completed"
	// PathCurrent marks the first incomplete goal in creation order.
	PathCurrent GoalPathStatus = "current"
	// PathLocked marks every incomplete goal after the current one.
	PathLocked GoalPathStatus = "locked"
)

// MilestoneView is the render-ready shape of one milestone.
type MilestoneView struct {
	Index     int    `json:"index"`
	Amount    string `json:"amount"`
	Cents     int64  `json:"amountCents"`
	DueDate   string `json:"dueDate"`
	Completed bool   `json:"completed"`
	Current   bool   `json:"current"`
}

// GoalView is the full render-ready shape of one goal: the goal fields plus
// its derived schedule and progress.
type GoalView struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Amount      string          `json:"amount"`
	AmountCents int64           `json:"amountCents"`
	Frequency   string          `json:"frequency"`
	StartDate   string          `json:"startDate"`
	DueDate     string          `json:"dueDate"`
	Milestones  []MilestoneView `json:"milestones"`
	TotalSaved  string          `json:"totalSaved"`
	SavedCents  int64           `json:"totalSavedCents"`
	Percent     float64         `json:"percent"`
	Completed   bool            `json:"completed"`
	Selected    bool            `json:"selected"`
}

// GoalPathEntry is one stop on the goal progression path.
type GoalPathEntry struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Amount    string         `json:"amount"`
	Percent   float64        `json:"percent"`
	Status    GoalPathStatus `json:"status"`
	Selected  bool           `json:"selected"`
	Completed bool           `json:"completed"`
}

// RewardsView is the achievement summary derived from the collection.
type RewardsView struct {
	XP       int               `json:"xp"`
	Level    int               `json:"level"`
	Badges   []rewards.Badge   `json:"badges"`
	Uniforms []rewards.Uniform `json:"uniforms"`
}

// DashboardView is the one-call aggregate the UI renders from: the active
// goal (if any), the progression path, and the rewards summary.
type DashboardView struct {
	ActiveGoal *GoalView       `json:"activeGoal,omitempty"`
	Path       []GoalPathEntry `json:"path"`
	Rewards    RewardsView     `json:"rewards"`
	// Celebrate is true exactly once per completed goal: on the first view
	// after completion. Rendering the dashboard consumes the flag.
	Celebrate bool `json:"celebrate"`
	// Degraded reports that the last save failed and changes are held in
	// memory only.
	Degraded bool `json:"degraded"`
}

// BuildGoalView derives the render model for a single goal.
func BuildGoalView(goal core.Goal, selected bool) GoalView {
	milestones := schedule.Generate(goal)
	progress := schedule.Measure(goal, milestones)

	views := make([]MilestoneView, len(milestones))
	for i, m := range milestones {
		views[i] = MilestoneView{
			Index:     m.Index,
			Amount:    m.Amount.FormatUSD(),
			Cents:     m.Amount.Cents,
			DueDate:   m.DueDate.ISO(),
			Completed: m.Completed,
			Current:   m.Index == progress.CurrentIndex,
		}
	}

	return GoalView{
		ID:          goal.ID,
		Name:        goal.Name,
		Amount:      goal.Amount.FormatUSD(),
		AmountCents: goal.Amount.Cents,
		Frequency:   string(goal.Frequency),
		StartDate:   goal.StartDate.ISO(),
		DueDate:     goal.DueDate.ISO(),
		Milestones:  views,
		TotalSaved:  progress.TotalSaved.FormatUSD(),
		SavedCents:  progress.TotalSaved.Cents,
		Percent:     progress.Percent,
		Completed:   goal.Completed,
		Selected:    selected,
	}
}

// BuildPath lays the goals out as a progression path in creation order:
// completed goals first as passed stops, then exactly one current goal,
// then locked ones.
func BuildPath(goals []core.Goal, activeID string) []GoalPathEntry {
	out := make([]GoalPathEntry, len(goals))
	currentAssigned := false
	for i, g := range goals {
		milestones := schedule.Generate(g)
		progress := schedule.Measure(g, milestones)

		status := PathLocked
		if g.Completed {
			status = PathCompleted
		} else if !currentAssigned {
			status = PathCurrent
			currentAssigned = true
		}

		out[i] = GoalPathEntry{
			ID:        g.ID,
			Name:      g.Name,
			Amount:    g.Amount.FormatUSD(),
			Percent:   progress.Percent,
			Status:    status,
			Selected:  g.ID == activeID,
			Completed: g.Completed,
		}
	}
	return out
}

// BuildRewards derives the achievement summary from the collection.
func BuildRewards(goals []core.Goal) RewardsView {
	completed := 0
	for _, g := range goals {
		if g.Completed {
			completed++
		}
	}
	xp := rewards.XP(len(goals), completed)
	level := rewards.Level(xp)
	return RewardsView{
		XP:       xp,
		Level:    level,
		Badges:   rewards.Unlocked(len(goals)),
		Uniforms: rewards.UnlockedUniforms(level),
	}
}

// Dashboard assembles the aggregate view for the current collection state.
// It consumes the active goal's celebration flag if it is pending.
func (s *GoalService) Dashboard(ctx context.Context) DashboardView {
	goals := s.Goals()
	activeID := s.ActiveGoalID()

	view := DashboardView{
		Path:     BuildPath(goals, activeID),
		Rewards:  BuildRewards(goals),
		Degraded: s.Degraded(),
	}

	for _, g := range goals {
		if g.ID == activeID {
			gv := BuildGoalView(g, true)
			view.ActiveGoal = &gv
			view.Celebrate = s.ShouldCelebrate(ctx, g.ID)
			break
		}
	}
	return view
}
