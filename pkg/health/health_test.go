package health_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sluggable/pkg/health"
)

func TestRun_NoChecks(t *testing.T) {
	t.Parallel()

	report := health.Run(context.Background(), nil)
	assert.Equal(t, health.StatusHealthy, report.Status)
	require.NoError(t, report.Err())
}

func TestRun_AllHealthy(t *testing.T) {
	t.Parallel()

	report := health.Run(context.Background(), health.Checks{
		"database": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return nil },
	})

	assert.Equal(t, health.StatusHealthy, report.Status)
	assert.Equal(t, []string{"database", "redis"}, report.Names())
	assert.Equal(t, health.StatusHealthy, report.Checks["redis"].Status)
	require.NoError(t, report.Err())
}

func TestRun_Failure(t *testing.T) {
	t.Parallel()

	errDown := errors.New("connection refused")
	report := health.Run(context.Background(), health.Checks{
		"database": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return errDown },
	})

	assert.Equal(t, health.StatusUnhealthy, report.Status)
	assert.Equal(t, health.StatusHealthy, report.Checks["database"].Status)
	assert.Equal(t, "connection refused", report.Checks["redis"].Error)

	err := report.Err()
	require.ErrorIs(t, err, health.ErrCheckFailed)
	require.ErrorIs(t, err, errDown)
	assert.Contains(t, err.Error(), "redis: connection refused")
}

func TestRun_Timeout(t *testing.T) {
	t.Parallel()

	block := make(chan struct{})
	t.Cleanup(func() { close(block) })

	report := health.Run(context.Background(), health.Checks{
		"stuck": func(context.Context) error {
			<-block
			return nil
		},
	}, health.WithTimeout(20*time.Millisecond))

	assert.Equal(t, health.StatusUnhealthy, report.Status)
	require.ErrorIs(t, report.Err(), health.ErrCheckTimeout)
}
