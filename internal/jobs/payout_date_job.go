package jobs

import (
	"context"
	"time"

	"ajo-pools/internal/logger"
	"ajo-pools/internal/services"

	"github.com/sirupsen/logrus"
)

// PayoutDateRefresher recomputes stored payout dates
type PayoutDateRefresher interface {
	RefreshPayoutDates(ctx context.Context) ([]services.PayoutDateResult, error)
}

// PayoutDateJob periodically reconciles next_payout_date of open pools
type PayoutDateJob struct {
	refresher PayoutDateRefresher
	interval  time.Duration
	timeout   time.Duration
	stopChan  chan struct{}
	done      chan struct{}
}

// NewPayoutDateJob creates a new payout date job
func NewPayoutDateJob(refresher PayoutDateRefresher, interval time.Duration) *PayoutDateJob {
	return &PayoutDateJob{
		refresher: refresher,
		interval:  interval,
		timeout:   time.Minute,
		stopChan:  make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start runs one refresh immediately and then one per interval until Stop
func (j *PayoutDateJob) Start() {
	defer close(j.done)
	logger.Logger.WithField("interval", j.interval.String()).Info("payout date job started")

	j.run()

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.run()
		case <-j.stopChan:
			logger.Logger.Info("payout date job stopped")
			return
		}
	}
}

// Stop ends the loop and waits for an in-flight refresh to finish
func (j *PayoutDateJob) Stop() {
	close(j.stopChan)
	<-j.done
}

func (j *PayoutDateJob) run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	results, err := j.refresher.RefreshPayoutDates(ctx)
	if err != nil {
		logger.Logger.WithError(err).Error("payout date refresh failed")
		return
	}

	updated, failed := 0, 0
	for _, r := range results {
		switch {
		case !r.Success:
			failed++
		case !r.NoUpdateNeeded:
			updated++
		}
	}

	logger.Logger.WithFields(logrus.Fields{
		"pools":   len(results),
		"updated": updated,
		"failed":  failed,
	}).Info("payout dates refreshed")
}
