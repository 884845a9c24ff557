package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"ajo-pools/internal/services"

	"github.com/stretchr/testify/assert"
)

type countingRefresher struct {
	calls atomic.Int32
	err   error
}

func (r *countingRefresher) RefreshPayoutDates(ctx context.Context) ([]services.PayoutDateResult, error) {
	r.calls.Add(1)
	if r.err != nil {
		return nil, r.err
	}
	return []services.PayoutDateResult{{Success: true}, {Success: false, Error: "boom"}}, nil
}

func TestPayoutDateJobRunsImmediatelyAndOnTick(t *testing.T) {
	refresher := &countingRefresher{}
	job := NewPayoutDateJob(refresher, 10*time.Millisecond)

	go job.Start()

	assert.Eventually(t, func() bool { return refresher.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	job.Stop()

	calls := refresher.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, calls, refresher.calls.Load(), "no refresh after Stop")
}

func TestPayoutDateJobSurvivesFailures(t *testing.T) {
	refresher := &countingRefresher{err: errors.New("database unavailable")}
	job := NewPayoutDateJob(refresher, 10*time.Millisecond)

	go job.Start()

	assert.Eventually(t, func() bool { return refresher.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	job.Stop()
}
