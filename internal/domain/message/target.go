package message

import (
	"github.com/google/uuid"

	wb_errors "whitebeat/pkg/errors"
)

type TargetKind string

const (
	TargetDirect TargetKind = "DIRECT"
	TargetGroup  TargetKind = "GROUP"
)

// Target is the tagged-union addressing context for a message or call.
// Constructing through DirectTarget/GroupTarget makes the both-or-neither
// state unrepresentable in service code; Validate guards decoded input.
type Target struct {
	Kind     TargetKind
	Receiver uuid.UUID
	Group    uuid.UUID
}

func DirectTarget(receiver uuid.UUID) Target {
	return Target{Kind: TargetDirect, Receiver: receiver}
}

func GroupTarget(groupID uuid.UUID) Target {
	return Target{Kind: TargetGroup, Group: groupID}
}

func (t Target) Validate() error {
	switch t.Kind {
	case TargetDirect:
		if t.Receiver == uuid.Nil || t.Group != uuid.Nil {
			return wb_errors.ErrInvalidArgument
		}
	case TargetGroup:
		if t.Group == uuid.Nil || t.Receiver != uuid.Nil {
			return wb_errors.ErrInvalidArgument
		}
	default:
		return wb_errors.ErrInvalidArgument
	}
	return nil
}

// SameContext reports whether a stored message belongs to this target.
func (t Target) SameContext(m Message) bool {
	switch t.Kind {
	case TargetDirect:
		return m.ConversationID != nil
	case TargetGroup:
		return m.GroupID != nil && *m.GroupID == t.Group
	}
	return false
}
