package commands

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"whitebeat/internal/domain/status"
	wb_errors "whitebeat/pkg/errors"
)

type CreateStatusCommand struct {
	OwnerID         uuid.UUID
	Type            status.Type
	Content         *string
	MediaURL        *string
	BackgroundColor *string
	Privacy         status.PrivacyMode
	// Audience is consulted only for SELECTED (allow list) and EXCEPT
	// (deny list) privacy modes.
	Audience  []uuid.UUID
	ExpiresAt *time.Time
}

func (c CreateStatusCommand) CommandType() string { return "status.create" }

func (c CreateStatusCommand) Validate() error {
	if c.OwnerID == uuid.Nil {
		return wb_errors.ErrInvalidArgument
	}
	switch c.Type {
	case status.TypeText, status.TypeImage, status.TypeVideo:
	default:
		return wb_errors.ErrInvalidArgument
	}
	switch c.Privacy {
	case status.PrivacyEveryone, status.PrivacyContacts, status.PrivacySelected, status.PrivacyExcept:
	default:
		return wb_errors.ErrInvalidArgument
	}
	hasContent := c.Content != nil && *c.Content != ""
	hasMedia := c.MediaURL != nil && *c.MediaURL != ""
	if !hasContent && !hasMedia {
		return wb_errors.ErrInvalidArgument
	}
	return nil
}

func (c CreateStatusCommand) IdempotencyKey() string { return "" }

type ViewStatusCommand struct {
	ViewerID uuid.UUID
	StatusID uuid.UUID
}

func (c ViewStatusCommand) CommandType() string { return "status.view" }

func (c ViewStatusCommand) Validate() error {
	if c.ViewerID == uuid.Nil || c.StatusID == uuid.Nil {
		return wb_errors.ErrInvalidArgument
	}
	return nil
}

func (c ViewStatusCommand) IdempotencyKey() string {
	return fmt.Sprintf("status.view:%s:%s", c.StatusID, c.ViewerID)
}
