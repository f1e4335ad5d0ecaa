package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"character-workers/internal/common/config"
	"character-workers/internal/common/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryWithBackoff(t *testing.T) {
	log := logger.NewNoOpLogger()

	t.Run("succeeds after failures", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(context.Background(), func(context.Context) error {
			calls++
			if calls < 3 {
				return errors.New("dial tcp: connection refused")
			}
			return nil
		}, 5, time.Millisecond, log, "test op")

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("returns last error", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(context.Background(), func(context.Context) error {
			calls++
			return errors.New("down")
		}, 3, time.Millisecond, log, "test op")

		require.Error(t, err)
		assert.Equal(t, 3, calls)
		assert.Contains(t, err.Error(), "test op failed after 3 attempts: down")
	})

	t.Run("stops on cancel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := RetryWithBackoff(ctx, func(context.Context) error {
			return errors.New("down")
		}, 5, time.Hour, log, "test op")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestConnectRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := ConnectRedis(context.Background(), config.RedisConfig{Address: mr.Addr()}, logger.NewTestLogger(t))
	require.NoError(t, err)
	defer c.Close()

	assert.NoError(t, c.Ping(context.Background()))
}

func TestPostgresClient_Ping(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	mock.ExpectPing().WillReturnError(errors.New("starting up"))
	mock.ExpectPing()
	mock.ExpectClose()

	c := &PostgresClient{DB: db}
	err = RetryWithBackoff(context.Background(), c.Ping, 3, time.Millisecond, logger.NewNoOpLogger(), "PostgreSQL connection")
	require.NoError(t, err)
	require.NoError(t, c.Close())

	assert.NoError(t, mock.ExpectationsWereMet())
}
