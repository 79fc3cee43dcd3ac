package core

import (
	"errors"
	"strings"
	"testing"
)

func validGoal() Goal {
	return Goal{
		ID:        "g1",
		Name:      "Emergency fund",
		Amount:    Money{Cents: 50000},
		Frequency: Weekly,
		StartDate: NewDate(2024, 1, 1),
		DueDate:   NewDate(2024, 1, 29),
	}
}

func TestGoal_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Goal)
		wantErr error
	}{
		{
			name:   "valid goal",
			mutate: func(g *Goal) {},
		},
		{
			name:    "empty name",
			mutate:  func(g *Goal) { g.Name = "" },
			wantErr: ErrEmptyName,
		},
		{
			name:    "whitespace-only name",
			mutate:  func(g *Goal) { g.Name = "   " },
			wantErr: ErrEmptyName,
		},
		{
			name:    "name too long",
			mutate:  func(g *Goal) { g.Name = strings.Repeat("x", 201) },
			wantErr: ErrValidation,
		},
		{
			name:    "zero amount",
			mutate:  func(g *Goal) { g.Amount = Money{} },
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "negative amount",
			mutate:  func(g *Goal) { g.Amount = Money{Cents: -100} },
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "unknown frequency",
			mutate:  func(g *Goal) { g.Frequency = "yearly" },
			wantErr: ErrInvalidFrequency,
		},
		{
			name:    "zero start date",
			mutate:  func(g *Goal) { g.StartDate = Date{} },
			wantErr: ErrInvalidDate,
		},
		{
			name:    "zero due date",
			mutate:  func(g *Goal) { g.DueDate = Date{} },
			wantErr: ErrInvalidDate,
		},
		{
			name:   "due date before start is allowed",
			mutate: func(g *Goal) { g.DueDate = NewDate(2023, 12, 1) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := validGoal()
			tt.mutate(&g)
			err := g.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("Validate() error %v should wrap ErrValidation", err)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantISO string
		wantErr bool
	}{
		{name: "plain date", input: "2024-01-29", wantISO: "2024-01-29"},
		{name: "padded input", input: "  2024-02-29  ", wantISO: "2024-02-29"},
		{name: "invalid leap day", input: "2023-02-29", wantErr: true},
		{name: "wrong format", input: "29/01/2024", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDate(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseDate(%q) expected error", tt.input)
				}
				if !errors.Is(err, ErrInvalidDate) {
					t.Fatalf("ParseDate(%q) error %v should wrap ErrInvalidDate", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) unexpected error: %v", tt.input, err)
			}
			if got := d.ISO(); got != tt.wantISO {
				t.Fatalf("ParseDate(%q).ISO() = %q, want %q", tt.input, got, tt.wantISO)
			}
		})
	}
}

func TestGoal_TotalSaved(t *testing.T) {
	g := validGoal()
	if got := g.TotalSaved().Cents; got != 0 {
		t.Fatalf("TotalSaved() on fresh goal = %d, want 0", got)
	}

	g.StepsCompleted = []Money{{Cents: 12500}, {Cents: 12500}, {Cents: 12501}}
	if got := g.TotalSaved().Cents; got != 37501 {
		t.Fatalf("TotalSaved() = %d, want 37501", got)
	}
}

func TestGoal_Clone(t *testing.T) {
	g := validGoal()
	g.StepsCompleted = []Money{{Cents: 100}}

	clone := g.Clone()
	clone.StepsCompleted[0] = Money{Cents: 999}
	clone.StepsCompleted = append(clone.StepsCompleted, Money{Cents: 1})

	if g.StepsCompleted[0].Cents != 100 {
		t.Fatalf("Clone() shares contribution history with original")
	}
	if len(g.StepsCompleted) != 1 {
		t.Fatalf("Clone() append leaked into original")
	}
}

func TestTransitionErrorsWrapSentinel(t *testing.T) {
	for _, err := range []error{ErrOutOfOrderStep, ErrGoalFullyStepped} {
		if !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("%v should wrap ErrInvalidTransition", err)
		}
	}
}
