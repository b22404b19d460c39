package consumer_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"go-directory/internal/dashboard"
	dashboardMock "go-directory/internal/dashboard/mock"
	"go-directory/internal/events"
	"go-directory/internal/messaging/kafka/consumer"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

// fakeReader serves queued messages and then blocks until ctx is done.
type fakeReader struct {
	mu        sync.Mutex
	queue     []kafkago.Message
	committed []int64
	drained   chan struct{}
}

func newFakeReader(msgs ...kafkago.Message) *fakeReader {
	return &fakeReader{queue: msgs, drained: make(chan struct{})}
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	r.mu.Lock()
	if len(r.queue) > 0 {
		msg := r.queue[0]
		r.queue = r.queue[1:]
		r.mu.Unlock()
		return msg, nil
	}
	select {
	case <-r.drained:
	default:
		close(r.drained)
	}
	r.mu.Unlock()

	<-ctx.Done()
	return kafkago.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(ctx context.Context, msgs ...kafkago.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func lifecycleMessage(t *testing.T, offset int64, eventType string, id int64) kafkago.Message {
	t.Helper()
	value, err := json.Marshal(events.EmployeeLifecycleEvent{
		EventType:  eventType,
		EmployeeID: id,
		OccurredAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	return kafkago.Message{Offset: offset, Value: value}
}

func run(t *testing.T, reader *fakeReader, stats consumer.StatsRefresher) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		consumer.ConsumeEmployeeLifecycle(ctx, reader, stats, zap.NewNop())
		close(done)
	}()

	select {
	case <-reader.drained:
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not drain messages")
	}
	cancel()
	<-done
}

func TestConsumeEmployeeLifecycle(t *testing.T) {
	t.Run("refreshes stats and commits each event", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		stats := dashboardMock.NewMockService(ctrl)
		stats.EXPECT().Refresh(gomock.Any()).Return(dashboard.StatsResponse{}, nil).Times(2)

		reader := newFakeReader(
			lifecycleMessage(t, 1, events.EmployeeCreated, 10),
			lifecycleMessage(t, 2, events.EmployeeDeleted, 10),
		)
		run(t, reader, stats)

		assert.Equal(t, []int64{1, 2}, reader.committed)
	})

	t.Run("invalid payload is committed without refresh", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		stats := dashboardMock.NewMockService(ctrl)

		reader := newFakeReader(kafkago.Message{Offset: 7, Value: []byte("not-json")})
		run(t, reader, stats)

		assert.Equal(t, []int64{7}, reader.committed)
	})

	t.Run("failed refresh is not committed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		stats := dashboardMock.NewMockService(ctrl)
		stats.EXPECT().Refresh(gomock.Any()).Return(dashboard.StatsResponse{}, errors.New("db down"))

		reader := newFakeReader(lifecycleMessage(t, 3, events.EmployeeUpdated, 4))
		run(t, reader, stats)

		assert.Empty(t, reader.committed)
	})
}
