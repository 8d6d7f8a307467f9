package httpdto

import (
	"time"

	"whitebeat/internal/domain/call"
)

type InitiateCallRequest struct {
	ReceiverID string `json:"receiver_id,omitempty"`
	GroupID    string `json:"group_id,omitempty"`
	Type       string `json:"type"`
}

type TransitionCallRequest struct {
	Status string `json:"status"`
}

// CallDTO represents a call in API responses
type CallDTO struct {
	ID              string `json:"id"`
	CallerID        string `json:"caller_id"`
	ReceiverID      string `json:"receiver_id,omitempty"`
	GroupID         string `json:"group_id,omitempty"`
	Type            string `json:"type"`
	Status          string `json:"status"`
	SessionToken    string `json:"session_token"`
	StartedAt       string `json:"started_at"`
	AnsweredAt      string `json:"answered_at,omitempty"`
	EndedAt         string `json:"ended_at,omitempty"`
	DurationSeconds int64  `json:"duration_seconds"`
}

// CallRecordDTO is one history entry, direction caller-relative
type CallRecordDTO struct {
	Call       CallDTO `json:"call"`
	IsIncoming bool    `json:"is_incoming"`
}

// FromCall converts a domain call to CallDTO
func FromCall(c call.Call) CallDTO {
	dto := CallDTO{
		ID:              c.ID.String(),
		CallerID:        c.CallerID.String(),
		Type:            string(c.Type),
		Status:          string(c.Status),
		SessionToken:    c.SessionToken,
		StartedAt:       c.StartedAt.Format(time.RFC3339),
		DurationSeconds: c.DurationSeconds,
	}
	if c.ReceiverID != nil {
		dto.ReceiverID = c.ReceiverID.String()
	}
	if c.GroupID != nil {
		dto.GroupID = c.GroupID.String()
	}
	if c.AnsweredAt != nil {
		dto.AnsweredAt = c.AnsweredAt.Format(time.RFC3339)
	}
	if c.EndedAt != nil {
		dto.EndedAt = c.EndedAt.Format(time.RFC3339)
	}
	return dto
}

// FromCallRecord converts a history entry to CallRecordDTO
func FromCallRecord(c call.Call, isIncoming bool) CallRecordDTO {
	return CallRecordDTO{Call: FromCall(c), IsIncoming: isIncoming}
}
