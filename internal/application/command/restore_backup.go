package command

import (
	"context"

	"github.com/step-hub/team-step-hub/internal/domain/shared"
	"github.com/step-hub/team-step-hub/pkg/logger"
)

// RestoreBackupCommand replaces live state with a previously exported JSON
// document. Sections missing from the document keep their current values.
type RestoreBackupCommand struct {
	// Document is the raw backup JSON.
	Document []byte

	// CorrelationID ties log lines across layers. Optional.
	CorrelationID string
}

// Validate checks the command fields.
func (c *RestoreBackupCommand) Validate() error {
	if len(c.Document) == 0 {
		return shared.ErrInvalidSnapshot
	}
	c.CorrelationID = correlate(c.CorrelationID)
	return nil
}

// RestoreBackup imports a backup document into the store.
func (h *Handler) RestoreBackup(ctx context.Context, cmd RestoreBackupCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	log := h.log.With(logger.String("correlation_id", cmd.CorrelationID))

	if err := h.store.ImportSnapshot(ctx, cmd.Document); err != nil {
		log.Error("failed to restore backup", logger.Err(err))
		return err
	}

	log.Info("backup restored", logger.Int("bytes", len(cmd.Document)))
	return nil
}
