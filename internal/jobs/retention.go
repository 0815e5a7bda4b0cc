// Package jobs runs background maintenance on a cron schedule.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Purger deletes profiles older than a retention window.
type Purger interface {
	PurgeStaleProfiles(ctx context.Context, retention time.Duration) (int64, error)
}

// Retention periodically purges stale profiles.
type Retention struct {
	cron      *cron.Cron
	purger    Purger
	retention time.Duration
	timeout   time.Duration
	log       *logrus.Logger
}

// NewRetention schedules purges of profiles older than retention.
// schedule accepts standard five-field specs and descriptors such as "@daily".
func NewRetention(purger Purger, schedule string, retention time.Duration, log *logrus.Logger) (*Retention, error) {
	r := &Retention{
		cron:      cron.New(),
		purger:    purger,
		retention: retention,
		timeout:   time.Minute,
		log:       log,
	}
	if _, err := r.cron.AddFunc(schedule, r.Run); err != nil {
		return nil, fmt.Errorf("invalid purge schedule %q: %w", schedule, err)
	}
	return r, nil
}

// Run performs a single purge.
func (r *Retention) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	n, err := r.purger.PurgeStaleProfiles(ctx, r.retention)
	if err != nil {
		r.log.Errorf("Profile purge failed: %v", err)
		return
	}
	r.log.WithField("purged", n).Debug("profile purge finished")
}

// Start runs the scheduler in its own goroutine.
func (r *Retention) Start() {
	r.cron.Start()
	r.log.Infof("Profile retention job started (retention %s)", r.retention)
}

// Stop halts the scheduler and waits for a running purge to finish.
func (r *Retention) Stop() {
	<-r.cron.Stop().Done()
}
