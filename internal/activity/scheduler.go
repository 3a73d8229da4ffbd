package activity

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the nightly feed sweep.
type Scheduler struct {
	feed *FeedRepo
	cron *cron.Cron
}

func NewScheduler(feed *FeedRepo) *Scheduler {
	return &Scheduler{feed: feed, cron: cron.New()}
}

// Start registers the sweep at midnight and starts the cron loop.
func (s *Scheduler) Start() {
	_, err := s.cron.AddFunc("0 0 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		n, err := s.feed.Sweep(ctx)
		if err != nil {
			log.Printf("[activity] sweep failed: %v", err)
			return
		}
		log.Printf("[activity] sweep trimmed %d feeds", n)
	})
	if err != nil {
		log.Printf("[activity] failed to schedule sweep: %v", err)
		return
	}
	s.cron.Start()
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}
