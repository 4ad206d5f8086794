package queries

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

type staleGames interface {
	StaleGames(ctx context.Context, before time.Time) ([]string, error)
	ActiveGames(ctx context.Context, before time.Time) ([]string, error)
	DeleteGame(ctx context.Context, id string) error
}

type matchRemover interface {
	Remove(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
	Abandoned(before time.Time) []string
}

// Cleaner drops finished and abandoned games from postgres and their live
// state from the match service.
type Cleaner struct {
	games   staleGames
	matches matchRemover
	after   time.Duration
	log     logrus.FieldLogger
	now     func() time.Time
}

func NewCleaner(games staleGames, matches matchRemover, after time.Duration, logger logrus.FieldLogger) *Cleaner {
	return &Cleaner{games: games, matches: matches, after: after, log: logger, now: time.Now}
}

// Run removes every game idle for longer than the retention window: finished
// games, untouched lobbies, active matches no player has touched, and active
// games whose live state has expired.
func (c *Cleaner) Run(ctx context.Context) int {
	before := c.now().Add(-c.after)
	ids, err := c.games.StaleGames(ctx, before)
	if err != nil {
		c.log.WithError(err).Error("listing stale games failed")
		return 0
	}
	ids = append(ids, c.matches.Abandoned(before)...)

	active, err := c.games.ActiveGames(ctx, before)
	if err != nil {
		c.log.WithError(err).Error("listing active games failed")
	}
	for _, id := range active {
		live, err := c.matches.Exists(ctx, id)
		if err != nil {
			c.log.WithError(err).WithField("match", id).Warn("checking match state failed")
			continue
		}
		if !live {
			ids = append(ids, id)
		}
	}
	ids = dedupe(ids)

	removed := 0
	for _, id := range ids {
		log := c.log.WithField("match", id)
		if err := c.matches.Remove(ctx, id); err != nil {
			log.WithError(err).Warn("removing match state failed")
		}
		if err := c.games.DeleteGame(ctx, id); err != nil {
			log.WithError(err).Error("deleting game failed")
			continue
		}
		removed++
	}
	c.log.WithField("games_deleted", removed).Info("stale game cleanup done")
	return removed
}

// CronCleaner schedules Run on spec and returns the running scheduler.
func CronCleaner(c *Cleaner, spec string) (*cron.Cron, error) {
	sched := cron.New()
	if _, err := sched.AddFunc(spec, func() { c.Run(context.Background()) }); err != nil {
		return nil, err
	}
	sched.Start()
	return sched, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
