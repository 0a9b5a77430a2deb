package command

import (
	"context"
	"strings"

	"github.com/step-hub/team-step-hub/internal/domain/shared"
	"github.com/step-hub/team-step-hub/pkg/logger"
)

// SetGoalCommand changes a member's daily step goal.
type SetGoalCommand struct {
	// Username identifies the member. Created on first use.
	Username string

	// Goal is the new daily goal in steps. Must be positive.
	Goal int

	// CorrelationID ties log lines across layers. Optional.
	CorrelationID string
}

// Validate checks the command fields.
func (c *SetGoalCommand) Validate() error {
	c.Username = strings.TrimSpace(c.Username)
	if c.Username == "" {
		return shared.ErrEmptyUsername
	}
	if c.Goal <= 0 {
		return shared.ErrInvalidGoal
	}
	c.CorrelationID = correlate(c.CorrelationID)
	return nil
}

// SetGoal updates a member's daily goal.
func (h *Handler) SetGoal(ctx context.Context, cmd SetGoalCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	log := h.log.With(
		logger.String("correlation_id", cmd.CorrelationID),
		logger.Username(cmd.Username),
	)

	if err := h.store.SetGoal(ctx, cmd.Username, cmd.Goal); err != nil {
		log.Error("failed to set goal", logger.Err(err))
		return err
	}

	log.Info("daily goal updated", logger.Goal(cmd.Goal))
	return nil
}
