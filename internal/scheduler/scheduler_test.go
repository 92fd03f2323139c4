package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/house-odds/internal/logger"
)

func TestScheduleRejectsBadExpression(t *testing.T) {
	s := NewScheduler(logger.Discard())
	err := s.Schedule("sweep", "every minute", func(context.Context) {})
	assert.Error(t, err)
}

func TestScheduleRejectsDuplicateName(t *testing.T) {
	s := NewScheduler(logger.Discard())
	require.NoError(t, s.Schedule("sweep", "@every 1m", func(context.Context) {}))
	assert.Error(t, s.Schedule("sweep", "@every 1m", func(context.Context) {}))
}

func TestStartRequiresJobs(t *testing.T) {
	s := NewScheduler(logger.Discard())
	assert.Error(t, s.Start())
	assert.False(t, s.IsRunning())
}

func TestSchedulerLifecycle(t *testing.T) {
	s := NewScheduler(logger.Discard())
	ran := make(chan struct{}, 1)
	require.NoError(t, s.Schedule("sweep", "@every 1s", func(ctx context.Context) {
		select {
		case ran <- struct{}{}:
		default:
		}
	}))

	assert.True(t, s.NextRun("sweep").IsZero())
	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	assert.Error(t, s.Start())
	assert.False(t, s.NextRun("sweep").IsZero())
	assert.True(t, s.NextRun("missing").IsZero())
	assert.Error(t, s.Schedule("late", "@every 1m", func(context.Context) {}))

	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduled job did not run")
	}

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
	assert.NoError(t, s.Stop())
}
