package match

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// IdleEnforcer is the turn timeout policy: a match whose active turn has
// been idle longer than the timeout gets its bidder passed or its turn ended.
type IdleEnforcer struct {
	manager *Manager
	timeout time.Duration
	log     logrus.FieldLogger
	cron    *cron.Cron
	now     func() time.Time
}

func NewIdleEnforcer(manager *Manager, timeout time.Duration, logger logrus.FieldLogger) *IdleEnforcer {
	return &IdleEnforcer{
		manager: manager,
		timeout: timeout,
		log:     logger,
		cron:    cron.New(),
		now:     time.Now,
	}
}

// Start schedules Sweep every interval.
func (e *IdleEnforcer) Start(every time.Duration) error {
	if _, err := e.cron.AddFunc(fmt.Sprintf("@every %s", every), func() { e.Sweep(context.Background()) }); err != nil {
		return fmt.Errorf("schedule idle sweep: %w", err)
	}
	e.cron.Start()
	return nil
}

// Stop halts the schedule and waits for a running sweep.
func (e *IdleEnforcer) Stop() {
	<-e.cron.Stop().Done()
}

// Sweep forces progress on every idle match and returns how many it touched.
func (e *IdleEnforcer) Sweep(ctx context.Context) int {
	cutoff := e.now().Add(-e.timeout)
	forced := 0
	for _, match := range e.manager.Matches() {
		ok, err := match.EnforceIdle(ctx, cutoff)
		log := e.log.WithField("match", match.ID)
		if err != nil {
			log.WithError(err).Warn("idle enforcement failed")
			continue
		}
		if ok {
			log.Info("idle turn enforced")
			forced++
		}
	}
	return forced
}
