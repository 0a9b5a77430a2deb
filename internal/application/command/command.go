// Package command contains write operations (CQRS - Commands). Each command
// validates its input, carries a correlation ID for tracing, and delegates
// the mutation to the Store, which persists write-through and publishes the
// matching domain event.
package command

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/step-hub/team-step-hub/internal/domain/member"
	"github.com/step-hub/team-step-hub/pkg/logger"
)

// Store is the mutation surface commands need. *persistence.Store satisfies
// it; tests may substitute their own.
type Store interface {
	GetOrCreateMember(ctx context.Context, username string) (*member.Member, error)
	SetGoal(ctx context.Context, username string, goal int) error
	LogSteps(ctx context.Context, username, date string, steps int) error
	RemoveMember(ctx context.Context, username string) error
	ClearAllMembers(ctx context.Context) error
	StartChallenge(ctx context.Context, teamGoal int, startDate, targetEndDate string) error
	EndChallenge(ctx context.Context, endDate string) error
	SetWeeklyGoal(ctx context.Context, goal int, today time.Time) error
	SetAnnouncement(ctx context.Context, text string) error
	ImportSnapshot(ctx context.Context, doc []byte) error
}

// Handler executes commands against a Store.
type Handler struct {
	store Store
	log   *logger.Logger
}

// NewHandler creates a command handler.
func NewHandler(store Store, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Default()
	}
	return &Handler{
		store: store,
		log:   log.With(logger.String("component", "command")),
	}
}

// correlate returns the given correlation ID, or mints one.
func correlate(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}
