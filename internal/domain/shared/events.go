package shared

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types. Every successful Store mutation publishes exactly one of
// these; derived-data caches subscribe to them so that nothing computed from a
// snapshot outlives the snapshot it was computed from.
const (
	// Member events
	EventMemberCreated  EventType = "member.created"
	EventMemberRemoved  EventType = "member.removed"
	EventMembersCleared EventType = "member.all_cleared"
	EventGoalChanged    EventType = "member.goal_changed"
	EventStepsLogged    EventType = "member.steps_logged"

	// Challenge events
	EventChallengeStarted EventType = "challenge.started"
	EventChallengeEnded   EventType = "challenge.ended"

	// Weekly goal events
	EventWeeklyGoalSet EventType = "weekly_goal.set"

	// Announcement events
	EventAnnouncementSet EventType = "announcement.set"

	// Snapshot events
	EventSnapshotRestored EventType = "snapshot.restored"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event
	// (the username for member events, "team" for team-wide records).
	AggregateID() string
}

// EventHandler processes a published domain event.
type EventHandler func(Event)

// BaseEvent provides common event functionality.
type BaseEvent struct {
	ID            string    `json:"id"`
	Type          EventType `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	AggregateId   string    `json:"aggregate_id"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType { return e.Type }

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string { return e.AggregateId }

// NewBaseEvent creates a new base event with a fresh identity.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		ID:          uuid.NewString(),
		Type:        eventType,
		Timestamp:   time.Now().UTC(),
		AggregateId: aggregateID,
	}
}

// WithCorrelationID sets the correlation ID for tracing.
func (e BaseEvent) WithCorrelationID(id string) BaseEvent {
	e.CorrelationID = id
	return e
}

// StepsLoggedEvent is emitted when steps are logged for a member on a date.
type StepsLoggedEvent struct {
	BaseEvent
	Username string `json:"username"`
	Date     string `json:"date"`
	Steps    int    `json:"steps"`
	Previous int    `json:"previous"` // overwritten value, 0 when the date was empty
}

// GoalChangedEvent is emitted when a member's daily goal changes.
type GoalChangedEvent struct {
	BaseEvent
	Username string `json:"username"`
	OldGoal  int    `json:"old_goal"`
	NewGoal  int    `json:"new_goal"`
}

// MemberCreatedEvent is emitted when a member is lazily created.
type MemberCreatedEvent struct {
	BaseEvent
	Username  string `json:"username"`
	DailyGoal int    `json:"daily_goal"`
}

// MemberRemovedEvent is emitted when a member is removed.
type MemberRemovedEvent struct {
	BaseEvent
	Username string `json:"username"`
}

// MembersClearedEvent is emitted when every member is removed at once.
type MembersClearedEvent struct {
	BaseEvent
	Removed int `json:"removed"`
}

// AnnouncementSetEvent is emitted when the team announcement changes.
type AnnouncementSetEvent struct {
	BaseEvent
	Cleared bool `json:"cleared"`
}

// SnapshotRestoredEvent is emitted when state is replaced from a backup.
type SnapshotRestoredEvent struct {
	BaseEvent
	Members int `json:"members"`
}

// ChallengeStartedEvent is emitted when a team challenge starts or restarts.
type ChallengeStartedEvent struct {
	BaseEvent
	TeamGoal      int    `json:"team_goal"`
	StartDate     string `json:"start_date"`
	TargetEndDate string `json:"target_end_date,omitempty"`
}

// ChallengeEndedEvent is emitted when the team challenge ends.
type ChallengeEndedEvent struct {
	BaseEvent
	EndDate string `json:"end_date"`
}

// WeeklyGoalSetEvent is emitted when the weekly team goal is set.
type WeeklyGoalSetEvent struct {
	BaseEvent
	Goal      int    `json:"goal"`
	WeekStart string `json:"week_start"`
}
