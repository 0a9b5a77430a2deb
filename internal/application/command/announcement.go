package command

import (
	"context"
	"strings"

	"github.com/step-hub/team-step-hub/pkg/logger"
)

// SetAnnouncementCommand publishes a message to the whole team. An empty
// text clears the current announcement.
type SetAnnouncementCommand struct {
	// Text is the announcement body. Whitespace-only clears it.
	Text string

	// CorrelationID ties log lines across layers. Optional.
	CorrelationID string
}

// Validate normalizes the command fields. Always succeeds.
func (c *SetAnnouncementCommand) Validate() error {
	c.Text = strings.TrimSpace(c.Text)
	c.CorrelationID = correlate(c.CorrelationID)
	return nil
}

// SetAnnouncement stores or clears the team announcement.
func (h *Handler) SetAnnouncement(ctx context.Context, cmd SetAnnouncementCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	log := h.log.With(logger.String("correlation_id", cmd.CorrelationID))

	if err := h.store.SetAnnouncement(ctx, cmd.Text); err != nil {
		log.Error("failed to set announcement", logger.Err(err))
		return err
	}

	if cmd.Text == "" {
		log.Info("announcement cleared")
	} else {
		log.Info("announcement set", logger.Int("length", len(cmd.Text)))
	}
	return nil
}
