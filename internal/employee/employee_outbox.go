package employee

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"go-directory/internal/events"
	"go-directory/internal/messaging/kafka"
	"go-directory/internal/shared/contextutil"
)

const aggregateType = "employee"

// queueLifecycleEvent stores the event in the outbox inside tx so it is
// published only if the mutation commits.
func (s *service) queueLifecycleEvent(ctx context.Context, tx *sql.Tx, eventType string, employeeID int64) error {
	if s.outbox == nil {
		return nil
	}

	rid := contextutil.GetRequestID(ctx)
	payload := events.EmployeeLifecycleEvent{
		EventType:  eventType,
		RequestID:  rid,
		EmployeeID: employeeID,
		OccurredAt: time.Now().UTC(),
	}

	event, err := kafka.NewOutboxEvent(
		events.EmployeeLifecycleTopic,
		aggregateType,
		strconv.FormatInt(employeeID, 10),
		eventType,
		rid,
		payload,
	)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, event)
}
