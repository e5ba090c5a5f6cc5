package scheduler

import (
	"context"
	"time"

	"github.com/hengyuan-pack/giftbox-site/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Purger drops every cached render; cache.Revalidator satisfies it.
type Purger interface {
	Purge(ctx context.Context, trigger string) error
}

// RevalidateScheduler periodically clears the render cache so pages pick up
// changes made outside the admin API.
type RevalidateScheduler struct {
	cron   *cron.Cron
	spec   string
	purger Purger
}

func NewRevalidateScheduler(spec string, purger Purger) *RevalidateScheduler {
	return &RevalidateScheduler{
		cron:   cron.New(),
		spec:   spec,
		purger: purger,
	}
}

// Start registers the purge job and starts the cron loop.
func (s *RevalidateScheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, s.run)
	if err != nil {
		logger.Error("Failed to add cron job for cache revalidation", err, map[string]interface{}{
			"spec": s.spec,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Revalidate scheduler started", map[string]interface{}{
		"spec": s.spec,
	})
	return nil
}

func (s *RevalidateScheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.purger.Purge(ctx, "schedule"); err != nil {
		logger.Error("Scheduled render cache purge failed", err)
		return
	}
	logger.Debug("Scheduled render cache purge finished")
}

// Stop waits for a running job to finish.
func (s *RevalidateScheduler) Stop() {
	logger.Info("Stopping revalidate scheduler...")
	<-s.cron.Stop().Done()
	logger.Info("Revalidate scheduler stopped")
}
