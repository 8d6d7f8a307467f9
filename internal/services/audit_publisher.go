package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"whitebeat/internal/domain/audit"
	"whitebeat/internal/redis"
	"whitebeat/internal/repository"
	"whitebeat/pkg/logger"
)

// AuditPublisher is the write-only mutation sink. Failures are logged and
// swallowed: no engine operation ever fails because auditing did.
type AuditPublisher struct {
	repo      repository.AuditRepository
	publisher *redis.Publisher
	log       *logger.Logger
}

func NewAuditPublisher(repo repository.AuditRepository, publisher *redis.Publisher, log *logger.Logger) *AuditPublisher {
	return &AuditPublisher{repo: repo, publisher: publisher, log: log}
}

// Record persists the event and mirrors it to pub/sub, fire-and-forget.
func (a *AuditPublisher) Record(ctx context.Context, actorID uuid.UUID, action, entityType, entityID string, payload map[string]interface{}) {
	if a == nil {
		return
	}
	event := &audit.Event{
		ID:         uuid.New(),
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Payload:    payload,
		CreatedAt:  time.Now(),
	}
	if a.repo != nil {
		if err := a.repo.Create(ctx, event); err != nil && a.log != nil {
			a.log.Errorf("audit write failed for %s: %v", action, err)
		}
	}
	if a.publisher != nil {
		data, err := json.Marshal(event)
		if err == nil {
			if err := a.publisher.Publish(ctx, "audit:"+entityType, data); err != nil && a.log != nil {
				a.log.Errorf("audit publish failed for %s: %v", action, err)
			}
		}
	}
}
