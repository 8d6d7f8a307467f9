package commands

import (
	"fmt"

	"github.com/google/uuid"

	"whitebeat/internal/domain/message"
	wb_errors "whitebeat/pkg/errors"
)

// SendMessageCommand carries one send intent. Target is the tagged union
// from the message domain; content or media is required.
type SendMessageCommand struct {
	SenderID uuid.UUID
	Target   message.Target
	Type     message.Type
	Content  *string
	MediaURL *string
	ReplyTo  *uuid.UUID
}

func (c SendMessageCommand) CommandType() string { return "message.send" }

func (c SendMessageCommand) Validate() error {
	if c.SenderID == uuid.Nil {
		return wb_errors.ErrInvalidArgument
	}
	if err := c.Target.Validate(); err != nil {
		return err
	}
	if c.Target.Kind == message.TargetDirect && c.Target.Receiver == c.SenderID {
		return wb_errors.ErrInvalidArgument
	}
	hasContent := c.Content != nil && *c.Content != ""
	hasMedia := c.MediaURL != nil && *c.MediaURL != ""
	if !hasContent && !hasMedia {
		return wb_errors.ErrInvalidArgument
	}
	return nil
}

func (c SendMessageCommand) IdempotencyKey() string { return "" }

type EditMessageCommand struct {
	ActorID    uuid.UUID
	MessageID  uuid.UUID
	NewContent string
}

func (c EditMessageCommand) CommandType() string { return "message.edit" }

func (c EditMessageCommand) Validate() error {
	if c.ActorID == uuid.Nil || c.MessageID == uuid.Nil || c.NewContent == "" {
		return wb_errors.ErrInvalidArgument
	}
	return nil
}

func (c EditMessageCommand) IdempotencyKey() string { return "" }

type DeleteMessageCommand struct {
	ActorID     uuid.UUID
	MessageID   uuid.UUID
	ForEveryone bool
}

func (c DeleteMessageCommand) CommandType() string { return "message.delete" }

func (c DeleteMessageCommand) Validate() error {
	if c.ActorID == uuid.Nil || c.MessageID == uuid.Nil {
		return wb_errors.ErrInvalidArgument
	}
	return nil
}

func (c DeleteMessageCommand) IdempotencyKey() string {
	return fmt.Sprintf("message.delete:%s:%s:%t", c.MessageID, c.ActorID, c.ForEveryone)
}

type ReactMessageCommand struct {
	UserID    uuid.UUID
	MessageID uuid.UUID
	Reaction  message.ReactionType
}

func (c ReactMessageCommand) CommandType() string { return "message.react" }

func (c ReactMessageCommand) Validate() error {
	if c.UserID == uuid.Nil || c.MessageID == uuid.Nil {
		return wb_errors.ErrInvalidArgument
	}
	if !message.ValidReactionType(c.Reaction) {
		return wb_errors.ErrInvalidArgument
	}
	return nil
}

func (c ReactMessageCommand) IdempotencyKey() string {
	return fmt.Sprintf("message.react:%s:%s", c.MessageID, c.UserID)
}

// MarkReadCommand addresses an existing context directly: exactly one of
// ConversationID/GroupID must be set.
type MarkReadCommand struct {
	ReaderID       uuid.UUID
	ConversationID *uuid.UUID
	GroupID        *uuid.UUID
}

func (c MarkReadCommand) CommandType() string { return "message.mark_read" }

func (c MarkReadCommand) Validate() error {
	if c.ReaderID == uuid.Nil {
		return wb_errors.ErrInvalidArgument
	}
	if (c.ConversationID == nil) == (c.GroupID == nil) {
		return wb_errors.ErrInvalidArgument
	}
	return nil
}

func (c MarkReadCommand) IdempotencyKey() string { return "" }

type ForwardMessageCommand struct {
	SenderID  uuid.UUID
	MessageID uuid.UUID
	Target    message.Target
}

func (c ForwardMessageCommand) CommandType() string { return "message.forward" }

func (c ForwardMessageCommand) Validate() error {
	if c.SenderID == uuid.Nil || c.MessageID == uuid.Nil {
		return wb_errors.ErrInvalidArgument
	}
	return c.Target.Validate()
}

func (c ForwardMessageCommand) IdempotencyKey() string { return "" }
