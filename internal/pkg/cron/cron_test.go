package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	runs int64
	err  error
}

func (j *countingJob) Run(ctx context.Context) error {
	atomic.AddInt64(&j.runs, 1)
	return j.err
}

func TestNewService_ClampsHour(t *testing.T) {
	svc := NewService(&countingJob{}, 25)
	assert.Equal(t, 0, svc.runAtHour)

	svc = NewService(&countingJob{}, -1)
	assert.Equal(t, 0, svc.runAtHour)

	svc = NewService(&countingJob{}, 6)
	assert.Equal(t, 6, svc.runAtHour)
}

func TestService_RunNow(t *testing.T) {
	job := &countingJob{}
	svc := NewService(job, 2)

	require.NoError(t, svc.RunNow(context.Background()))
	assert.Equal(t, int64(1), atomic.LoadInt64(&job.runs))

	job.err = errors.New("sweep failed")
	assert.Error(t, svc.RunNow(context.Background()))
}

func TestService_UntilNextRun(t *testing.T) {
	svc := NewService(&countingJob{}, 2)

	// 整点之前，当天执行
	now := time.Date(2026, 3, 10, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Hour, svc.untilNextRun(now))

	// 整点之后，顺延到次日
	now = time.Date(2026, 3, 10, 3, 0, 0, 0, time.UTC)
	assert.Equal(t, 23*time.Hour, svc.untilNextRun(now))

	// 恰在整点，顺延到次日
	now = time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC)
	assert.Equal(t, 24*time.Hour, svc.untilNextRun(now))
}

func TestService_StartStop(t *testing.T) {
	job := &countingJob{}
	svc := NewService(job, 2)

	svc.Start()
	// Stop 不应阻塞或 panic
	done := make(chan struct{})
	go func() {
		svc.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}
}
