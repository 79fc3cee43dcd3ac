package amqp

import (
	"encoding/json"
	"time"
)

// GoalEventKind identifies the state change a goal event announces.
type GoalEventKind string

const (
	GoalCreated       GoalEventKind = "goal.created"
	GoalUpdated       GoalEventKind = "goal.updated"
	GoalStepCompleted GoalEventKind = "goal.step_completed"
	GoalCompleted     GoalEventKind = "goal.completed"
	GoalDeleted       GoalEventKind = "goal.deleted"
)

// GoalEvent is a lightweight change-notification message. It carries only
// the goal ID and event kind; consumers fetch the full goal from storage.
type GoalEvent struct {
	Kind      GoalEventKind `json:"kind"`
	GoalID    string        `json:"goalId"`
	Timestamp time.Time     `json:"timestamp"`
}

// NewGoalEvent creates an event stamped with the current time.
func NewGoalEvent(kind GoalEventKind, goalID string) *GoalEvent {
	return &GoalEvent{
		Kind:      kind,
		GoalID:    goalID,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes.
func (e *GoalEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// GoalEventFromJSON creates an event from JSON bytes.
func GoalEventFromJSON(data []byte) (*GoalEvent, error) {
	var ev GoalEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
