package amqp

import (
	"testing"
	"time"
)

func TestGoalEventRoundTrip(t *testing.T) {
	event := NewGoalEvent(GoalStepCompleted, "goal-123")
	if event.Timestamp.IsZero() {
		t.Fatal("NewGoalEvent() did not stamp a timestamp")
	}

	data, err := event.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error: %v", err)
	}

	got, err := GoalEventFromJSON(data)
	if err != nil {
		t.Fatalf("GoalEventFromJSON() error: %v", err)
	}
	if got.Kind != GoalStepCompleted {
		t.Errorf("Kind = %s, want %s", got.Kind, GoalStepCompleted)
	}
	if got.GoalID != "goal-123" {
		t.Errorf("GoalID = %s", got.GoalID)
	}
	if !got.Timestamp.Equal(event.Timestamp.Truncate(time.Nanosecond)) {
		t.Errorf("Timestamp = %v, want %v", got.Timestamp, event.Timestamp)
	}
}

func TestGoalEventFromJSON_Malformed(t *testing.T) {
	if _, err := GoalEventFromJSON([]byte("{broken")); err == nil {
		t.Fatal("GoalEventFromJSON() should reject malformed JSON")
	}
}
