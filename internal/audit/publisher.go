package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AleksandrSotnikov/WaveWebSite/internal/auth"
	"github.com/AleksandrSotnikov/WaveWebSite/internal/logger"
	"github.com/AleksandrSotnikov/WaveWebSite/internal/metrics"
)

// Publisher records mutations after they commit. Publishing never fails the
// caller's operation.
type Publisher interface {
	Publish(ctx context.Context, action, entityType string, entityID int, changes map[string]any)
}

type RedisPublisher struct {
	redis *redis.Client
	queue string
}

func NewPublisher(rdb *redis.Client, queue string) *RedisPublisher {
	return &RedisPublisher{redis: rdb, queue: queue}
}

func (p *RedisPublisher) Publish(ctx context.Context, action, entityType string, entityID int, changes map[string]any) {
	event := Event{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Changes:    changes,
		Created:    time.Now(),
	}
	if adminID, ok := auth.AdminIDFromContext(ctx); ok {
		event.AdminUserID = &adminID
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("failed to marshal audit event", "entity", entityType, "error", err)
		metrics.RecordAuditEvent("dropped")
		return
	}

	// The request may already be finishing; the push must not be cancelled with it.
	if err := p.redis.LPush(context.WithoutCancel(ctx), p.queue, string(data)).Err(); err != nil {
		logger.Error("failed to queue audit event",
			"action", action, "entity", entityType, "entity_id", entityID, "error", err)
		metrics.RecordAuditEvent("dropped")
		return
	}
	metrics.RecordAuditEvent("queued")
}

func (p *RedisPublisher) QueueLength(ctx context.Context) int64 {
	length, _ := p.redis.LLen(ctx, p.queue).Result()
	return length
}

type nopPublisher struct{}

// Nop discards every event.
func Nop() Publisher { return nopPublisher{} }

func (nopPublisher) Publish(context.Context, string, string, int, map[string]any) {}
