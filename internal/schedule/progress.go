package schedule

import "pennypilot/internal/core"

// NoCurrentStep is the CurrentIndex value when every milestone is complete.
const NoCurrentStep = -1

// Progress is the aggregate saved-amount view of a goal and its schedule.
type Progress struct {
	TotalSaved core.Money
	// Percent is clamped to 100 so overshoot never exceeds it.
	Percent  float64
	Complete bool
	// CurrentIndex is the first incomplete milestone, the only one eligible
	// for user-initiated completion. NoCurrentStep when all are complete.
	CurrentIndex int
}

// Measure reduces a goal and its generated schedule to aggregate progress.
func Measure(goal core.Goal, milestones []Milestone) Progress {
	total := goal.TotalSaved()

	var percent float64
	if goal.Amount.Cents > 0 {
		percent = float64(total.Cents) * 100 / float64(goal.Amount.Cents)
		if percent > 100 {
			percent = 100
		}
	}

	current := NoCurrentStep
	for _, m := range milestones {
		if !m.Completed {
			current = m.Index
			break
		}
	}

	return Progress{
		TotalSaved:   total,
		Percent:      percent,
		Complete:     total.Cents >= goal.Amount.Cents,
		CurrentIndex: current,
	}
}
