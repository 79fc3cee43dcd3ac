// Package schedule derives the milestone view of a savings goal.
//
// This file implements the Strategy Pattern for cadence arithmetic. Each
// frequency type (daily, weekly, monthly) has its own stepper that
// encapsulates the calendar math for counting and advancing milestones.
package schedule

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"pennypilot/internal/core"
)

// Milestone is one stepping stone on a goal's path. Milestones are derived
// from the goal on demand and never persisted.
type Milestone struct {
	Index     int
	Amount    core.Money
	DueDate   core.Date
	Completed bool
}

// Stepper is the strategy interface for cadence arithmetic.
// Each implementation encapsulates the calendar rules for one frequency.
type Stepper interface {
	// Count returns the number of whole cadence units between start and due.
	Count(start, due core.Date) int
	// Advance returns start moved forward by i cadence units.
	Advance(start core.Date, i int) core.Date
}

// DailyStepper implements Stepper for daily cadence.
type DailyStepper struct{}

func (DailyStepper) Count(start, due core.Date) int {
	return daysBetween(start, due)
}

func (DailyStepper) Advance(start core.Date, i int) core.Date {
	return core.Date{Time: start.Truncated().AddDate(0, 0, i)}
}

// WeeklyStepper implements Stepper for weekly cadence.
type WeeklyStepper struct{}

func (WeeklyStepper) Count(start, due core.Date) int {
	return daysBetween(start, due) / 7
}

func (WeeklyStepper) Advance(start core.Date, i int) core.Date {
	return core.Date{Time: start.Truncated().AddDate(0, 0, 7*i)}
}

// MonthlyStepper implements Stepper for monthly cadence. Advancing clamps to
// the last day of the target month so a Jan 31 start yields Feb 28 (or 29 in
// a leap year) rather than spilling into March.
type MonthlyStepper struct{}

func (MonthlyStepper) Count(start, due core.Date) int {
	s, d := start.Truncated(), due.Truncated()
	months := (d.Year()-s.Year())*12 + int(d.Month()) - int(s.Month())
	// Only whole months count: back off if the due day-of-month has not
	// reached the start day-of-month yet.
	if d.Day() < s.Day() {
		months--
	}
	return months
}

func (MonthlyStepper) Advance(start core.Date, i int) core.Date {
	s := start.Truncated()
	year := s.Year()
	month := int(s.Month()) + i
	for month > 12 {
		month -= 12
		year++
	}
	day := s.Day()
	if last := lastDayOfMonth(year, month); day > last {
		day = last
	}
	return core.NewDate(year, month, day)
}

// steppers maps frequencies to their corresponding cadence strategies.
var steppers = map[core.Frequency]Stepper{
	core.Daily:   DailyStepper{},
	core.Weekly:  WeeklyStepper{},
	core.Monthly: MonthlyStepper{},
}

// StepperFor returns the cadence stepper for a frequency.
// Returns an error if the frequency is not supported.
func StepperFor(frequency core.Frequency) (Stepper, error) {
	st, ok := steppers[frequency]
	if !ok {
		return nil, fmt.Errorf("unknown frequency: %s", frequency)
	}
	return st, nil
}

// StepCount computes the milestone count for a goal, clamped so at least one
// milestone always exists. Same-day goals and goals whose due date is not
// after the start date collapse to a single all-or-nothing milestone.
func StepCount(goal core.Goal) int {
	st, err := StepperFor(goal.Frequency)
	if err != nil {
		return 1
	}
	n := st.Count(goal.StartDate, goal.DueDate)
	if n < 1 {
		return 1
	}
	return n
}

// StepAmount computes the per-milestone target: the goal amount divided by
// the step count, rounded half-up on the cent. The sum of rounded step
// amounts may drift from the goal amount by up to one cent per step; the
// slack is accepted, not corrected. Never returns less than one cent.
func StepAmount(goal core.Goal, stepCount int) core.Money {
	if stepCount < 1 {
		stepCount = 1
	}
	cents := decimal.NewFromInt(goal.Amount.Cents).
		DivRound(decimal.NewFromInt(int64(stepCount)), 0).
		IntPart()
	if cents < 1 {
		cents = 1
	}
	return core.Money{Cents: cents}
}

// SavedSteps reconciles the completed-milestone count from the raw
// contribution history: floor(total saved / step amount). Re-deriving from
// dollars means a frequency or amount edit reinterprets history consistently
// under the new schedule instead of trusting stale per-milestone flags.
func SavedSteps(goal core.Goal, stepCount int) int {
	step := StepAmount(goal, stepCount)
	saved := int(goal.TotalSaved().Cents / step.Cents)
	if saved > stepCount {
		saved = stepCount
	}
	return saved
}

// Generate derives the ordered milestone schedule for a goal. It is pure and
// deterministic: calling it twice on an unchanged goal yields identical
// output, so it is safe to call on every render.
func Generate(goal core.Goal) []Milestone {
	n := StepCount(goal)
	step := StepAmount(goal, n)
	saved := SavedSteps(goal, n)

	st, err := StepperFor(goal.Frequency)
	if err != nil {
		st = DailyStepper{}
	}

	out := make([]Milestone, n)
	for i := 0; i < n; i++ {
		out[i] = Milestone{
			Index:     i,
			Amount:    step,
			DueDate:   st.Advance(goal.StartDate, i),
			Completed: i < saved,
		}
	}
	return out
}

func daysBetween(start, due core.Date) int {
	s, d := start.Truncated(), due.Truncated()
	return int(d.Sub(s.Time) / (24 * time.Hour))
}

func lastDayOfMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
