package command

import (
	"context"

	"github.com/step-hub/team-step-hub/internal/domain/shared"
	"github.com/step-hub/team-step-hub/pkg/logger"
	"github.com/step-hub/team-step-hub/pkg/timeutil"
)

// StartChallengeCommand opens a team step challenge. Starting a new challenge
// replaces any previous one.
type StartChallengeCommand struct {
	// TeamGoal is the collective step target. Must be positive.
	TeamGoal int

	// StartDate is the first counted day, YYYY-MM-DD.
	StartDate string

	// TargetEndDate is the aspirational finish day, YYYY-MM-DD. Optional.
	TargetEndDate string

	// CorrelationID ties log lines across layers. Optional.
	CorrelationID string
}

// Validate checks the command fields.
func (c *StartChallengeCommand) Validate() error {
	if c.TeamGoal <= 0 {
		return shared.ErrInvalidGoal
	}
	if _, err := timeutil.ParseDay(c.StartDate); err != nil {
		return shared.WrapError("challenge", "Start", shared.ErrMalformedDate,
			"start date must be YYYY-MM-DD", err)
	}
	if c.TargetEndDate != "" {
		if _, err := timeutil.ParseDay(c.TargetEndDate); err != nil {
			return shared.WrapError("challenge", "Start", shared.ErrMalformedDate,
				"target end date must be YYYY-MM-DD", err)
		}
	}
	c.CorrelationID = correlate(c.CorrelationID)
	return nil
}

// StartChallenge begins a new team challenge.
func (h *Handler) StartChallenge(ctx context.Context, cmd StartChallengeCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	log := h.log.With(logger.String("correlation_id", cmd.CorrelationID))

	if err := h.store.StartChallenge(ctx, cmd.TeamGoal, cmd.StartDate, cmd.TargetEndDate); err != nil {
		log.Error("failed to start challenge", logger.Err(err))
		return err
	}

	log.Info("challenge started",
		logger.Int("team_goal", cmd.TeamGoal),
		logger.String("start_date", cmd.StartDate),
	)
	return nil
}

// EndChallengeCommand closes the running challenge, freezing its counted
// range at the given end date.
type EndChallengeCommand struct {
	// EndDate is the last counted day, YYYY-MM-DD.
	EndDate string

	// CorrelationID ties log lines across layers. Optional.
	CorrelationID string
}

// Validate checks the command fields.
func (c *EndChallengeCommand) Validate() error {
	if _, err := timeutil.ParseDay(c.EndDate); err != nil {
		return shared.WrapError("challenge", "End", shared.ErrMalformedDate,
			"end date must be YYYY-MM-DD", err)
	}
	c.CorrelationID = correlate(c.CorrelationID)
	return nil
}

// EndChallenge stops the running challenge.
func (h *Handler) EndChallenge(ctx context.Context, cmd EndChallengeCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	log := h.log.With(logger.String("correlation_id", cmd.CorrelationID))

	if err := h.store.EndChallenge(ctx, cmd.EndDate); err != nil {
		log.Error("failed to end challenge", logger.Err(err))
		return err
	}

	log.Info("challenge ended", logger.String("end_date", cmd.EndDate))
	return nil
}
