package command

import (
	"context"
	"strings"

	"github.com/step-hub/team-step-hub/internal/domain/shared"
	"github.com/step-hub/team-step-hub/pkg/logger"
)

// AddMemberCommand registers a member, creating them with the default daily
// goal if they do not already exist.
type AddMemberCommand struct {
	// Username identifies the member.
	Username string

	// CorrelationID ties log lines across layers. Optional.
	CorrelationID string
}

// Validate checks the command fields.
func (c *AddMemberCommand) Validate() error {
	c.Username = strings.TrimSpace(c.Username)
	if c.Username == "" {
		return shared.ErrEmptyUsername
	}
	c.CorrelationID = correlate(c.CorrelationID)
	return nil
}

// AddMember ensures a member exists.
func (h *Handler) AddMember(ctx context.Context, cmd AddMemberCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	log := h.log.With(
		logger.String("correlation_id", cmd.CorrelationID),
		logger.Username(cmd.Username),
	)

	if _, err := h.store.GetOrCreateMember(ctx, cmd.Username); err != nil {
		log.Error("failed to add member", logger.Err(err))
		return err
	}

	log.Info("member registered")
	return nil
}

// RemoveMemberCommand deletes a member and their whole history.
type RemoveMemberCommand struct {
	// Username identifies the member to remove.
	Username string

	// CorrelationID ties log lines across layers. Optional.
	CorrelationID string
}

// Validate checks the command fields.
func (c *RemoveMemberCommand) Validate() error {
	c.Username = strings.TrimSpace(c.Username)
	if c.Username == "" {
		return shared.ErrEmptyUsername
	}
	c.CorrelationID = correlate(c.CorrelationID)
	return nil
}

// RemoveMember deletes a member. Removing an unknown member fails with
// shared.ErrNotFound.
func (h *Handler) RemoveMember(ctx context.Context, cmd RemoveMemberCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	log := h.log.With(
		logger.String("correlation_id", cmd.CorrelationID),
		logger.Username(cmd.Username),
	)

	if err := h.store.RemoveMember(ctx, cmd.Username); err != nil {
		log.Error("failed to remove member", logger.Err(err))
		return err
	}

	log.Info("member removed")
	return nil
}

// ConfirmClearPhrase must be supplied verbatim before all members are wiped.
const ConfirmClearPhrase = "DELETE ALL"

// ClearMembersCommand removes every member and all their data. The caller
// must type the confirmation phrase to prove intent.
type ClearMembersCommand struct {
	// Confirm must equal ConfirmClearPhrase.
	Confirm string

	// CorrelationID ties log lines across layers. Optional.
	CorrelationID string
}

// Validate checks the confirmation phrase.
func (c *ClearMembersCommand) Validate() error {
	if c.Confirm != ConfirmClearPhrase {
		return shared.NewDomainError("team", "ClearMembers", shared.ErrConfirmationMismatch,
			"type DELETE ALL to wipe the roster")
	}
	c.CorrelationID = correlate(c.CorrelationID)
	return nil
}

// ClearMembers wipes the whole roster.
func (h *Handler) ClearMembers(ctx context.Context, cmd ClearMembersCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	log := h.log.With(logger.String("correlation_id", cmd.CorrelationID))

	if err := h.store.ClearAllMembers(ctx); err != nil {
		log.Error("failed to clear members", logger.Err(err))
		return err
	}

	log.Warn("all members cleared")
	return nil
}
