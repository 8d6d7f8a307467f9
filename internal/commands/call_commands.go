package commands

import (
	"github.com/google/uuid"

	"whitebeat/internal/domain/call"
	"whitebeat/internal/domain/message"
	wb_errors "whitebeat/pkg/errors"
)

type InitiateCallCommand struct {
	CallerID uuid.UUID
	Target   message.Target
	Type     call.Type
}

func (c InitiateCallCommand) CommandType() string { return "call.initiate" }

func (c InitiateCallCommand) Validate() error {
	if c.CallerID == uuid.Nil {
		return wb_errors.ErrInvalidArgument
	}
	if c.Type != call.TypeAudio && c.Type != call.TypeVideo {
		return wb_errors.ErrInvalidArgument
	}
	if err := c.Target.Validate(); err != nil {
		return err
	}
	if c.Target.Kind == message.TargetDirect && c.Target.Receiver == c.CallerID {
		return wb_errors.ErrInvalidArgument
	}
	return nil
}

func (c InitiateCallCommand) IdempotencyKey() string { return "" }

type TransitionCallCommand struct {
	ActorID uuid.UUID
	CallID  uuid.UUID
	To      call.Status
}

func (c TransitionCallCommand) CommandType() string { return "call.transition" }

func (c TransitionCallCommand) Validate() error {
	if c.ActorID == uuid.Nil || c.CallID == uuid.Nil {
		return wb_errors.ErrInvalidArgument
	}
	switch c.To {
	case call.StatusRinging, call.StatusOngoing, call.StatusCompleted,
		call.StatusMissed, call.StatusRejected, call.StatusFailed:
		return nil
	}
	return wb_errors.ErrInvalidArgument
}

func (c TransitionCallCommand) IdempotencyKey() string { return "" }
