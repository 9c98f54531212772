package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AleksandrSotnikov/WaveWebSite/internal/logger"
	"github.com/AleksandrSotnikov/WaveWebSite/internal/metrics"
)

const (
	maxTries    = 3
	popTimeout  = 2 * time.Second
	retryBackoff = time.Second
)

// Worker drains the audit queue into audit_logs.
type Worker struct {
	redis *redis.Client
	repo  Repository
	queue string
	sleep func(time.Duration)
}

func NewWorker(rdb *redis.Client, repo Repository, queue string) *Worker {
	return &Worker{redis: rdb, repo: repo, queue: queue, sleep: time.Sleep}
}

func (w *Worker) Start(ctx context.Context) {
	logger.Info("audit worker started", "queue", w.queue)

	for {
		select {
		case <-ctx.Done():
			logger.Info("audit worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

func (w *Worker) processNext(ctx context.Context) {
	result, err := w.redis.BRPop(ctx, popTimeout, w.queue).Result()
	if err != nil {
		return
	}

	var event Event
	if err := json.Unmarshal([]byte(result[1]), &event); err != nil {
		logger.Error("bad audit event", "error", err)
		return
	}

	event.Tries++
	if err := w.repo.Insert(ctx, event); err != nil {
		logger.Error("failed to store audit event",
			"entity", event.EntityType, "entity_id", event.EntityID, "attempt", event.Tries, "error", err)

		if event.Tries < maxTries {
			w.sleep(retryBackoff)
			data, _ := json.Marshal(event)
			w.redis.LPush(context.WithoutCancel(ctx), w.queue, string(data))
		} else {
			w.saveFailed(ctx, event, err)
		}
		return
	}

	metrics.RecordAuditEvent("stored")
}

func (w *Worker) saveFailed(ctx context.Context, event Event, cause error) {
	failed := map[string]interface{}{
		"event": event,
		"error": cause.Error(),
		"time":  time.Now(),
	}
	data, _ := json.Marshal(failed)
	w.redis.LPush(context.WithoutCancel(ctx), w.queue+":failed", string(data))
	metrics.RecordAuditEvent("failed")
	logger.Error("audit event moved to failed queue", "entity", event.EntityType, "entity_id", event.EntityID)
}
