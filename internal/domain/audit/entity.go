package audit

import (
	"time"

	"github.com/google/uuid"
)

// Event is a write-only record of one mutation, mirrored to the pub/sub
// sink. The engines never read these back.
type Event struct {
	ID         uuid.UUID              `gorm:"type:uuid;primaryKey" json:"id"`
	ActorID    uuid.UUID              `gorm:"type:uuid" json:"actor_id"`
	Action     string                 `gorm:"type:varchar(64);not null;index:idx_audit_action" json:"action"`
	EntityType string                 `gorm:"type:varchar(32);not null" json:"entity_type"`
	EntityID   string                 `gorm:"type:varchar(64)" json:"entity_id"`
	Payload    map[string]interface{} `gorm:"type:jsonb;serializer:json" json:"payload,omitempty"`
	CreatedAt  time.Time              `gorm:"default:CURRENT_TIMESTAMP;index:idx_audit_created" json:"created_at"`
}

func (Event) TableName() string {
	return "audit_events"
}
