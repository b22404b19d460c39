package connection

import (
	"testing"
	"time"

	"go-directory/internal/config"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestConnectRedisWithRetry_Disabled(t *testing.T) {
	rdb, err := ConnectRedisWithRetry(config.RedisConfig{}, zap.NewNop())

	assert.NoError(t, err)
	assert.Nil(t, rdb)
}

func TestConnectKafkaWithRetry_RequiresBroker(t *testing.T) {
	_, err := ConnectKafkaWithRetry(config.KafkaConfig{}, zap.NewNop())

	assert.EqualError(t, err, "KAFKA_BROKER is required")
}

func TestConnectRedisWithRetry_Unreachable(t *testing.T) {
	old := retryDelay
	retryDelay = time.Millisecond
	t.Cleanup(func() { retryDelay = old })

	_, err := ConnectRedisWithRetry(config.RedisConfig{Addr: "127.0.0.1:1", MaxRetries: 2}, zap.NewNop())

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 retries")
}
