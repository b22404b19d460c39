package consumer

import (
	"context"
	"encoding/json"
	"time"

	"go-directory/internal/dashboard"
	"go-directory/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

type StatsRefresher interface {
	Refresh(ctx context.Context) (dashboard.StatsResponse, error)
}

// Fetch failures back off exponentially between these bounds.
var (
	minFetchBackoff = 200 * time.Millisecond
	maxFetchBackoff = 5 * time.Second
)

// ConsumeEmployeeLifecycle re-warms the dashboard stats cache for every
// employee lifecycle event until ctx is cancelled. Messages are committed
// after a successful refresh. A failed refresh is logged and the message
// left uncommitted; the reader does not deliver it again, and the next
// event recomputes the same figures. Undecodable messages are committed
// and skipped.
func ConsumeEmployeeLifecycle(
	ctx context.Context,
	reader MessageReader,
	stats StatsRefresher,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.employee_lifecycle")
	log.Info("employee lifecycle consumer started")

	backoff := minFetchBackoff
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("employee lifecycle consumer stopped")
				return
			}
			log.Error("fetch employee lifecycle message failed",
				zap.Duration("retry_in", backoff),
				zap.Error(err),
			)
			select {
			case <-ctx.Done():
				log.Info("employee lifecycle consumer stopped")
				return
			case <-time.After(backoff):
			}
			backoff = min(backoff*2, maxFetchBackoff)
			continue
		}
		backoff = minFetchBackoff

		var event events.EmployeeLifecycleEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil || event.EventType == "" {
			log.Error("decode employee lifecycle event failed",
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if _, err := stats.Refresh(ctx); err != nil {
			log.Error("refresh dashboard stats failed",
				zap.String("event_type", event.EventType),
				zap.Int64("employee_id", event.EmployeeID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit employee lifecycle message failed", zap.Error(err))
			continue
		}

		log.Info("dashboard stats refreshed from lifecycle event",
			zap.String("event_type", event.EventType),
			zap.Int64("employee_id", event.EmployeeID),
			zap.String("request_id", event.RequestID),
		)
	}
}
