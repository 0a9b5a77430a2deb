package command

import (
	"context"
	"strings"

	"github.com/step-hub/team-step-hub/internal/domain/shared"
	"github.com/step-hub/team-step-hub/pkg/logger"
)

// LogStepsCommand records a step count for a member on a calendar day.
// Logging the same day twice overwrites the earlier value.
type LogStepsCommand struct {
	// Username identifies the member. Created on first use.
	Username string

	// Date is the calendar day in YYYY-MM-DD form.
	Date string

	// Steps is the count for that day. Zero is a valid entry.
	Steps int

	// CorrelationID ties log lines across layers. Optional.
	CorrelationID string
}

// Validate checks the command fields.
func (c *LogStepsCommand) Validate() error {
	c.Username = strings.TrimSpace(c.Username)
	if c.Username == "" {
		return shared.ErrEmptyUsername
	}
	if c.Steps < 0 {
		return shared.ErrInvalidSteps
	}
	c.CorrelationID = correlate(c.CorrelationID)
	return nil
}

// LogSteps records a day's steps for a member.
func (h *Handler) LogSteps(ctx context.Context, cmd LogStepsCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	log := h.log.With(
		logger.String("correlation_id", cmd.CorrelationID),
		logger.Username(cmd.Username),
		logger.Day(cmd.Date),
	)

	if _, err := h.store.GetOrCreateMember(ctx, cmd.Username); err != nil {
		log.Error("failed to resolve member", logger.Err(err))
		return err
	}
	if err := h.store.LogSteps(ctx, cmd.Username, cmd.Date, cmd.Steps); err != nil {
		log.Error("failed to log steps", logger.Err(err))
		return err
	}

	log.Info("steps logged", logger.Steps(cmd.Steps))
	return nil
}
