package command

import (
	"context"
	"time"

	"github.com/step-hub/team-step-hub/internal/domain/shared"
	"github.com/step-hub/team-step-hub/pkg/logger"
	"github.com/step-hub/team-step-hub/pkg/timeutil"
)

// SetWeeklyGoalCommand sets the shared weekly team target, stamped with the
// Monday of the week containing Today. Setting it to zero clears the goal.
type SetWeeklyGoalCommand struct {
	// Goal is the weekly team step target. Zero clears it.
	Goal int

	// Today anchors the week the goal belongs to.
	Today time.Time

	// CorrelationID ties log lines across layers. Optional.
	CorrelationID string
}

// Validate checks the command fields.
func (c *SetWeeklyGoalCommand) Validate() error {
	if c.Goal < 0 {
		return shared.ErrInvalidGoal
	}
	if c.Today.IsZero() {
		c.Today = timeutil.Today()
	}
	c.CorrelationID = correlate(c.CorrelationID)
	return nil
}

// SetWeeklyGoal stores the weekly team target.
func (h *Handler) SetWeeklyGoal(ctx context.Context, cmd SetWeeklyGoalCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	log := h.log.With(logger.String("correlation_id", cmd.CorrelationID))

	if err := h.store.SetWeeklyGoal(ctx, cmd.Goal, cmd.Today); err != nil {
		log.Error("failed to set weekly goal", logger.Err(err))
		return err
	}

	log.Info("weekly goal set",
		logger.Goal(cmd.Goal),
		logger.String("week_start", timeutil.FormatDay(timeutil.MondayOf(cmd.Today))),
	)
	return nil
}
