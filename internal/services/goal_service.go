// Package services provides business logic and orchestration services.
//
// GoalService is the single owner of the goal collection: every mutation is
// serialized through it, re-derives milestone state from the contribution
// history inside the lock, persists through the storage port, and announces
// the change on the event channel.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"pennypilot/internal/amqp"
	"pennypilot/internal/core"
	"pennypilot/internal/schedule"
	"pennypilot/internal/storage"
)

// CreateGoalInput carries the user intent to create a goal. A zero StartDate
// defaults to the clock's current date.
type CreateGoalInput struct {
	Name      string
	Amount    core.Money
	Frequency core.Frequency
	StartDate core.Date
	DueDate   core.Date
}

// GoalPatch names the fields an edit may change. Nil fields are untouched.
// Editing amount or frequency does not rewrite the contribution history;
// completion state is recomputed against the new schedule.
type GoalPatch struct {
	Name      *string
	Amount    *core.Money
	Frequency *core.Frequency
	StartDate *core.Date
	DueDate   *core.Date
}

// GoalService owns the authoritative goal collection and the active-goal
// selection. All operations are safe for concurrent use; mutations never
// interleave.
type GoalService struct {
	mu     sync.Mutex
	repo   storage.GoalStore
	events EventPublisher
	clock  Clock
	ids    IDSource

	goals    []core.Goal
	activeID string
	degraded bool
}

// Option configures optional collaborators on the service.
type Option func(*GoalService)

func WithEventPublisher(p EventPublisher) Option {
	return func(s *GoalService) { s.events = p }
}

func WithClock(c Clock) Option {
	return func(s *GoalService) { s.clock = c }
}

func WithIDSource(ids IDSource) Option {
	return func(s *GoalService) { s.ids = ids }
}

// NewGoalService loads the stored collection and establishes the initial
// selection. A load failure is downgraded to an empty collection so the
// engine starts in degraded mode instead of refusing to start.
func NewGoalService(ctx context.Context, repo storage.GoalStore, opts ...Option) *GoalService {
	s := &GoalService{
		repo:  repo,
		clock: SystemClock{},
		ids:   UUIDSource{},
	}
	for _, opt := range opts {
		opt(s)
	}

	goals, err := repo.LoadGoals(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Failed to load goals, starting empty in degraded mode", "error", err)
		goals = []core.Goal{}
		s.degraded = true
	}
	s.goals = goals
	s.ensureSelectionLocked()

	slog.InfoContext(ctx, "Goal service initialized",
		"goals", len(s.goals),
		"active_goal", s.activeID)
	return s
}

// CreateGoal validates and stores a new goal. The new goal becomes the
// active one.
func (s *GoalService) CreateGoal(ctx context.Context, input CreateGoalInput) (core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := input.StartDate
	if start.IsZero() {
		start = core.Date{Time: s.clock.Now()}.Truncated()
	}

	goal := core.Goal{
		ID:             s.ids.NewID(),
		Name:           strings.TrimSpace(input.Name),
		Amount:         input.Amount,
		Frequency:      input.Frequency,
		StartDate:      start.Truncated(),
		DueDate:        input.DueDate.Truncated(),
		StepsCompleted: []core.Money{},
	}
	if err := goal.Validate(); err != nil {
		return core.Goal{}, err
	}

	s.goals = append(s.goals, goal)
	s.activeID = goal.ID
	s.persistLocked(ctx)
	s.publishLocked(ctx, amqp.GoalCreated, goal.ID)

	slog.InfoContext(ctx, "Goal created",
		"id", goal.ID,
		"name", goal.Name,
		"amount_cents", goal.Amount.Cents,
		"frequency", goal.Frequency)
	return goal.Clone(), nil
}

// CompleteMilestone records the next contribution against a goal. Only the
// current milestone may be completed; the index is re-derived here from the
// contribution history, never trusted from the caller, so stale or reentrant
// requests cannot both succeed.
func (s *GoalService) CompleteMilestone(ctx context.Context, goalID string, milestoneIndex int) (core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.indexOfLocked(goalID)
	if err != nil {
		return core.Goal{}, err
	}
	goal := s.goals[i]

	stepCount := schedule.StepCount(goal)
	savedSteps := schedule.SavedSteps(goal, stepCount)
	if savedSteps >= stepCount {
		return core.Goal{}, fmt.Errorf("%w: goal %s", core.ErrGoalFullyStepped, goalID)
	}
	if milestoneIndex != savedSteps {
		return core.Goal{}, fmt.Errorf("%w: got index %d, current is %d",
			core.ErrOutOfOrderStep, milestoneIndex, savedSteps)
	}

	step := schedule.StepAmount(goal, stepCount)
	goal.StepsCompleted = append(goal.StepsCompleted, step)
	goal.Completed = schedule.SavedSteps(goal, stepCount) >= stepCount
	s.goals[i] = goal

	s.persistLocked(ctx)
	s.publishLocked(ctx, amqp.GoalStepCompleted, goal.ID)
	if goal.Completed {
		s.publishLocked(ctx, amqp.GoalCompleted, goal.ID)
	}

	slog.InfoContext(ctx, "Milestone completed",
		"id", goal.ID,
		"index", milestoneIndex,
		"step_cents", step.Cents,
		"goal_completed", goal.Completed)
	return goal.Clone(), nil
}

// EditGoal applies a partial update. The contribution history is preserved
// as raw amounts, so amount or frequency changes shift the derived current
// milestone rather than rewriting history. Completion state is recomputed
// against the new schedule; raising the target above the saved total flips a
// completed goal back to active.
func (s *GoalService) EditGoal(ctx context.Context, goalID string, patch GoalPatch) (core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.indexOfLocked(goalID)
	if err != nil {
		return core.Goal{}, err
	}

	goal := s.goals[i].Clone()
	if patch.Name != nil {
		goal.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Amount != nil {
		goal.Amount = *patch.Amount
	}
	if patch.Frequency != nil {
		goal.Frequency = *patch.Frequency
	}
	if patch.StartDate != nil {
		goal.StartDate = patch.StartDate.Truncated()
	}
	if patch.DueDate != nil {
		goal.DueDate = patch.DueDate.Truncated()
	}
	if err := goal.Validate(); err != nil {
		return core.Goal{}, err
	}

	stepCount := schedule.StepCount(goal)
	goal.Completed = schedule.SavedSteps(goal, stepCount) >= stepCount
	s.goals[i] = goal

	s.persistLocked(ctx)
	s.publishLocked(ctx, amqp.GoalUpdated, goal.ID)

	slog.InfoContext(ctx, "Goal edited", "id", goal.ID, "name", goal.Name)
	return goal.Clone(), nil
}

// RenameGoal is the name-only specialization of EditGoal.
func (s *GoalService) RenameGoal(ctx context.Context, goalID, name string) (core.Goal, error) {
	return s.EditGoal(ctx, goalID, GoalPatch{Name: &name})
}

// DeleteGoal removes a goal along with its celebration marker. Deleting the
// active goal moves the selection to the first remaining goal, or clears it.
func (s *GoalService) DeleteGoal(ctx context.Context, goalID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.indexOfLocked(goalID)
	if err != nil {
		return err
	}

	s.goals = append(s.goals[:i], s.goals[i+1:]...)
	if s.activeID == goalID {
		s.activeID = ""
		s.ensureSelectionLocked()
	}

	s.persistLocked(ctx)
	s.publishLocked(ctx, amqp.GoalDeleted, goalID)

	slog.InfoContext(ctx, "Goal deleted", "id", goalID, "active_goal", s.activeID)
	return nil
}

// SelectGoal points the view-side selection at an existing goal.
func (s *GoalService) SelectGoal(goalID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.indexOfLocked(goalID); err != nil {
		return err
	}
	s.activeID = goalID
	return nil
}

// ActiveGoal returns the selected goal, if any.
func (s *GoalService) ActiveGoal() (core.Goal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureSelectionLocked()
	if s.activeID == "" {
		return core.Goal{}, false
	}
	i, err := s.indexOfLocked(s.activeID)
	if err != nil {
		return core.Goal{}, false
	}
	return s.goals[i].Clone(), true
}

// ActiveGoalID returns the current selection ("" = none).
func (s *GoalService) ActiveGoalID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureSelectionLocked()
	return s.activeID
}

// Goal returns a copy of one goal by ID.
func (s *GoalService) Goal(goalID string) (core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.indexOfLocked(goalID)
	if err != nil {
		return core.Goal{}, err
	}
	return s.goals[i].Clone(), nil
}

// Goals returns a copy of the whole collection in creation order.
func (s *GoalService) Goals() []core.Goal {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.Goal, len(s.goals))
	for i, g := range s.goals {
		out[i] = g.Clone()
	}
	return out
}

// ShouldCelebrate reports whether the goal's one-time completion celebration
// should fire now. The first observation of a completed goal returns true
// and sets the persisted marker; every later observation returns false, even
// across a restart. The marker is only ever cleared by deleting the goal.
func (s *GoalService) ShouldCelebrate(ctx context.Context, goalID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shouldCelebrateLocked(ctx, goalID)
}

// Degraded reports whether the last persistence attempt failed. The
// in-memory state stays authoritative for the session either way.
func (s *GoalService) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded
}

func (s *GoalService) shouldCelebrateLocked(ctx context.Context, goalID string) bool {
	i, err := s.indexOfLocked(goalID)
	if err != nil {
		return false
	}
	goal := s.goals[i]
	if !goal.Completed || goal.Celebrated {
		return false
	}

	goal.Celebrated = true
	s.goals[i] = goal
	s.persistLocked(ctx)

	slog.InfoContext(ctx, "Goal celebration fired", "id", goalID)
	return true
}

func (s *GoalService) indexOfLocked(goalID string) (int, error) {
	for i, g := range s.goals {
		if g.ID == goalID {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", core.ErrGoalNotFound, goalID)
}

// ensureSelectionLocked repairs the selection when it is unset or points at
// a goal that no longer exists.
func (s *GoalService) ensureSelectionLocked() {
	if s.activeID != "" {
		if _, err := s.indexOfLocked(s.activeID); err == nil {
			return
		}
	}
	if len(s.goals) > 0 {
		s.activeID = s.goals[0].ID
		return
	}
	s.activeID = ""
}

// persistLocked saves the collection through the port. A save failure is a
// non-fatal warning: the session keeps running on in-memory state.
func (s *GoalService) persistLocked(ctx context.Context) {
	if err := s.repo.SaveGoals(ctx, s.goals); err != nil {
		slog.WarnContext(ctx, "Failed to persist goals, continuing in degraded mode",
			"error", err, "goals", len(s.goals))
		s.degraded = true
		return
	}
	s.degraded = false
}

func (s *GoalService) publishLocked(ctx context.Context, kind amqp.GoalEventKind, goalID string) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishGoalEvent(ctx, amqp.NewGoalEvent(kind, goalID)); err != nil {
		// Events are best-effort; the mutation already succeeded locally.
		slog.ErrorContext(ctx, "Failed to publish goal event",
			"kind", kind, "goal_id", goalID, "error", err)
	}
}
