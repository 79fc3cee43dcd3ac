package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
)

type (
	// Frequency is the milestone cadence of a savings goal.
	Frequency string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Goal is a user-defined savings goal. The goal service owns all Goal
	// instances exclusively; other components receive copies.
	Goal struct {
		ID        string
		Name      string
		Amount    Money
		Frequency Frequency
		StartDate Date
		DueDate   Date
		// StepsCompleted is the append-only contribution history. Each entry
		// corresponds to one completed milestone; entries are never removed
		// except by whole-goal deletion.
		StepsCompleted []Money
		Completed      bool
		// Celebrated marks that the one-time completion celebration has fired
		// for this goal. Cleared only by goal deletion.
		Celebrated bool
	}
)

var (
	ErrValidation       = errors.New("validation failed")
	ErrEmptyName        = fmt.Errorf("%w: goal name cannot be empty", ErrValidation)
	ErrInvalidAmount    = fmt.Errorf("%w: amount must be positive", ErrValidation)
	ErrInvalidFrequency = fmt.Errorf("%w: unknown frequency", ErrValidation)
	ErrInvalidDate      = fmt.Errorf("%w: date cannot be zero", ErrValidation)

	ErrGoalNotFound = errors.New("goal not found")

	ErrInvalidTransition = errors.New("invalid state transition")
	ErrOutOfOrderStep    = fmt.Errorf("%w: milestones must be completed in order", ErrInvalidTransition)
	ErrGoalFullyStepped  = fmt.Errorf("%w: all milestones already completed", ErrInvalidTransition)
)

func (f Frequency) Validate() error {
	switch f {
	case Daily, Weekly, Monthly:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFrequency, string(f))
	}
}

// NewDate creates a new Date from year, month, day (UTC, midnight).
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO date string (2006-01-02).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	return Date{Time: t}, nil
}

// ISO returns the date formatted as an ISO date string.
func (d Date) ISO() string {
	return d.Format("2006-01-02")
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Truncated returns the date with any time-of-day component stripped (UTC).
func (d Date) Truncated() Date {
	y, m, day := d.Date()
	return NewDate(y, int(m), day)
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (g Goal) Validate() error {
	if len(strings.TrimSpace(g.Name)) == 0 {
		return ErrEmptyName
	}
	if len(g.Name) > 200 {
		return fmt.Errorf("%w: goal name too long (max 200 characters)", ErrValidation)
	}
	if err := g.Amount.Validate(); err != nil {
		return err
	}
	if err := g.Frequency.Validate(); err != nil {
		return err
	}
	if err := g.StartDate.Validate(); err != nil {
		return fmt.Errorf("invalid start date: %w", err)
	}
	if err := g.DueDate.Validate(); err != nil {
		return fmt.Errorf("invalid due date: %w", err)
	}
	// A due date on or before the start date is allowed: the schedule
	// collapses to a single all-or-nothing milestone.
	return nil
}

// TotalSaved sums the contribution history.
func (g Goal) TotalSaved() Money {
	var cents int64
	for _, s := range g.StepsCompleted {
		cents += s.Cents
	}
	return Money{Cents: cents}
}

// Clone returns a deep copy of the goal so callers cannot mutate the
// service-owned contribution history.
func (g Goal) Clone() Goal {
	out := g
	out.StepsCompleted = append([]Money(nil), g.StepsCompleted...)
	return out
}
