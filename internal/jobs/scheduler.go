package jobs

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

const jobStream = "assetman:jobs"

// Scheduler drives the recurring maintenance work: dropping cached views so
// they get rebuilt from fresh data, and announcing each run on a stream so
// out-of-process workers can pick it up.
type Scheduler struct {
	cron  *cron.Cron
	queue *redis.Client
	log   zerolog.Logger
}

func NewScheduler(queue *redis.Client, log zerolog.Logger) *Scheduler {
	c := cron.New(cron.WithSeconds())
	return &Scheduler{
		cron:  c,
		queue: queue,
		log:   log,
	}
}

func (s *Scheduler) Start() error {
	if s.queue == nil {
		return nil
	}

	if _, err := s.cron.AddFunc("0 0 */1 * * *", s.refreshWarrantyCache); err != nil { // hourly
		return err
	}
	if _, err := s.cron.AddFunc("0 0 0 * * *", s.invalidateStatsCaches); err != nil { // nightly
		return err
	}

	s.cron.Start()
	return nil
}

// Stop halts scheduling and waits for in-flight jobs, bounded at five seconds.
func (s *Scheduler) Stop() {
	done := s.cron.Stop().Done()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		s.log.Warn().Msg("scheduler stop timed out")
	}
}

func (s *Scheduler) refreshWarrantyCache() {
	ctx := context.Background()
	if err := s.queue.Del(ctx, "warranty:list").Err(); err != nil {
		s.log.Error().Err(err).Msg("drop warranty cache failed")
		return
	}
	if err := s.announce("warranty-refresh"); err != nil {
		s.log.Error().Err(err).Msg("announce warranty refresh failed")
	}
}

func (s *Scheduler) invalidateStatsCaches() {
	ctx := context.Background()
	iter := s.queue.Scan(ctx, 0, "stats:*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.queue.Del(ctx, iter.Val()).Err(); err != nil {
			s.log.Error().Err(err).Str("key", iter.Val()).Msg("drop stats cache failed")
		}
	}
	if err := iter.Err(); err != nil {
		s.log.Error().Err(err).Msg("scan stats caches failed")
		return
	}
	if err := s.announce("stats-invalidate"); err != nil {
		s.log.Error().Err(err).Msg("announce stats invalidation failed")
	}
}

func (s *Scheduler) announce(kind string) error {
	_, err := s.queue.XAdd(context.Background(), &redis.XAddArgs{
		Stream: jobStream,
		Values: map[string]any{
			"type": kind,
			"at":   time.Now().UTC().Format(time.RFC3339),
		},
	}).Result()
	return err
}
