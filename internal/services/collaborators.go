package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"pennypilot/internal/amqp"
)

// Clock supplies the current time. Injectable so schedule defaults and
// milestone due-date comparisons are testable.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant. Test helper.
type FixedClock struct {
	Time time.Time
}

func (c FixedClock) Now() time.Time { return c.Time }

// IDSource supplies unique goal identifiers. Uniqueness must hold within a
// store lifetime; IDs are never reused.
type IDSource interface {
	NewID() string
}

// UUIDSource issues random UUIDs.
type UUIDSource struct{}

func (UUIDSource) NewID() string { return uuid.NewString() }

// EventPublisher is the optional change-notification channel. The AMQP
// client satisfies it; a nil publisher disables event emission.
type EventPublisher interface {
	PublishGoalEvent(ctx context.Context, event *amqp.GoalEvent) error
}
