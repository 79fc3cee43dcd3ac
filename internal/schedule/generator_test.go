package schedule

import (
	"reflect"
	"testing"

	"pennypilot/internal/core"
)

func goal(amountCents int64, freq core.Frequency, start, due core.Date) core.Goal {
	return core.Goal{
		ID:        "g1",
		Name:      "Test goal",
		Amount:    core.Money{Cents: amountCents},
		Frequency: freq,
		StartDate: start,
		DueDate:   due,
	}
}

func TestStepCount(t *testing.T) {
	tests := []struct {
		name string
		goal core.Goal
		want int
	}{
		{
			name: "four weekly steps",
			goal: goal(50000, core.Weekly, core.NewDate(2024, 1, 1), core.NewDate(2024, 1, 29)),
			want: 4,
		},
		{
			name: "partial week does not count",
			goal: goal(50000, core.Weekly, core.NewDate(2024, 1, 1), core.NewDate(2024, 1, 28)),
			want: 3,
		},
		{
			name: "daily steps",
			goal: goal(1000, core.Daily, core.NewDate(2024, 1, 1), core.NewDate(2024, 1, 11)),
			want: 10,
		},
		{
			name: "monthly whole months",
			goal: goal(120000, core.Monthly, core.NewDate(2024, 1, 15), core.NewDate(2024, 7, 15)),
			want: 6,
		},
		{
			name: "monthly partial month does not count",
			goal: goal(120000, core.Monthly, core.NewDate(2024, 1, 15), core.NewDate(2024, 4, 10)),
			want: 2,
		},
		{
			name: "same day collapses to one",
			goal: goal(50000, core.Weekly, core.NewDate(2024, 1, 1), core.NewDate(2024, 1, 1)),
			want: 1,
		},
		{
			name: "due before start clamps to one",
			goal: goal(50000, core.Monthly, core.NewDate(2024, 6, 1), core.NewDate(2024, 1, 1)),
			want: 1,
		},
		{
			name: "unknown frequency clamps to one",
			goal: goal(50000, "yearly", core.NewDate(2024, 1, 1), core.NewDate(2025, 1, 1)),
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StepCount(tt.goal); got != tt.want {
				t.Fatalf("StepCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStepAmount(t *testing.T) {
	tests := []struct {
		name        string
		amountCents int64
		stepCount   int
		want        int64
	}{
		{name: "even split", amountCents: 50000, stepCount: 4, want: 12500},
		{name: "half-up rounding", amountCents: 10000, stepCount: 3, want: 3333},
		{name: "rounds up at half", amountCents: 100, stepCount: 8, want: 13},
		{name: "single step takes all", amountCents: 50000, stepCount: 1, want: 50000},
		{name: "floor at one cent", amountCents: 2, stepCount: 10, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := goal(tt.amountCents, core.Weekly, core.NewDate(2024, 1, 1), core.NewDate(2024, 1, 29))
			if got := StepAmount(g, tt.stepCount).Cents; got != tt.want {
				t.Fatalf("StepAmount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMonthlyStepper_AdvanceClampsToMonthEnd(t *testing.T) {
	tests := []struct {
		name  string
		start core.Date
		i     int
		want  string
	}{
		{name: "jan 31 to leap feb", start: core.NewDate(2024, 1, 31), i: 1, want: "2024-02-29"},
		{name: "jan 31 to non-leap feb", start: core.NewDate(2023, 1, 31), i: 1, want: "2023-02-28"},
		{name: "jan 31 to march keeps day", start: core.NewDate(2024, 1, 31), i: 2, want: "2024-03-31"},
		{name: "clamp to april 30", start: core.NewDate(2024, 1, 31), i: 3, want: "2024-04-30"},
		{name: "year rollover", start: core.NewDate(2024, 11, 15), i: 3, want: "2025-02-15"},
		{name: "zero units", start: core.NewDate(2024, 5, 10), i: 0, want: "2024-05-10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := (MonthlyStepper{}).Advance(tt.start, tt.i)
			if got.ISO() != tt.want {
				t.Fatalf("Advance(%s, %d) = %s, want %s", tt.start.ISO(), tt.i, got.ISO(), tt.want)
			}
		})
	}
}

func TestGenerate_WeeklySchedule(t *testing.T) {
	g := goal(50000, core.Weekly, core.NewDate(2024, 1, 1), core.NewDate(2024, 1, 29))

	milestones := Generate(g)
	if len(milestones) != 4 {
		t.Fatalf("Generate() returned %d milestones, want 4", len(milestones))
	}

	wantDates := []string{"2024-01-01", "2024-01-08", "2024-01-15", "2024-01-22"}
	for i, m := range milestones {
		if m.Index != i {
			t.Errorf("milestone %d has index %d", i, m.Index)
		}
		if m.Amount.Cents != 12500 {
			t.Errorf("milestone %d amount = %d, want 12500", i, m.Amount.Cents)
		}
		if m.DueDate.ISO() != wantDates[i] {
			t.Errorf("milestone %d due = %s, want %s", i, m.DueDate.ISO(), wantDates[i])
		}
		if m.Completed {
			t.Errorf("milestone %d completed on fresh goal", i)
		}
	}
}

func TestGenerate_MarksCompletedFromHistory(t *testing.T) {
	g := goal(50000, core.Weekly, core.NewDate(2024, 1, 1), core.NewDate(2024, 1, 29))
	g.StepsCompleted = []core.Money{{Cents: 12500}, {Cents: 12500}}

	milestones := Generate(g)
	for i, m := range milestones {
		wantDone := i < 2
		if m.Completed != wantDone {
			t.Errorf("milestone %d completed = %v, want %v", i, m.Completed, wantDone)
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	g := goal(10000, core.Monthly, core.NewDate(2024, 1, 31), core.NewDate(2024, 6, 30))
	g.StepsCompleted = []core.Money{{Cents: 2500}}

	first := Generate(g)
	second := Generate(g)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("Generate() is not deterministic:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestSavedSteps(t *testing.T) {
	g := goal(10000, core.Weekly, core.NewDate(2024, 1, 1), core.NewDate(2024, 1, 22))

	tests := []struct {
		name  string
		steps []core.Money
		want  int
	}{
		{name: "no history", steps: nil, want: 0},
		{name: "one step", steps: []core.Money{{Cents: 3333}}, want: 1},
		{name: "partial contribution floors", steps: []core.Money{{Cents: 3000}}, want: 0},
		{name: "overshoot clamps to step count", steps: []core.Money{{Cents: 99999}}, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := g
			g.StepsCompleted = tt.steps
			if got := SavedSteps(g, StepCount(g)); got != tt.want {
				t.Fatalf("SavedSteps() = %d, want %d", got, tt.want)
			}
		})
	}
}
