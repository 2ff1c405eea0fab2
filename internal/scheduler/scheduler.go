package scheduler

import (
	"context"

	"product_dashboard/internal/domain"
	"product_dashboard/internal/logger"

	"github.com/robfig/cron/v3"
)

// Initializer is the re-seed operation run on schedule
type Initializer interface {
	Initialize(ctx context.Context) (domain.SeedResult, error)
}

// SeedJob re-seeds the store on a cron schedule
type SeedJob struct {
	cron   *cron.Cron
	cronID cron.EntryID
}

// NewSeedJob registers seeder on spec (standard 5-field cron syntax or
// descriptors such as "@daily") and starts the scheduler.
func NewSeedJob(spec string, seeder Initializer) (*SeedJob, error) {
	c := cron.New()
	job := &SeedJob{cron: c}

	id, err := c.AddFunc(spec, func() {
		if _, err := seeder.Initialize(context.Background()); err != nil {
			logger.Error("scheduled initialize failed", "error", err)
		}
	})
	if err != nil {
		return nil, err
	}

	job.cronID = id
	c.Start()
	logger.Info("seed schedule registered", "spec", spec)
	return job, nil
}

// Stop removes the job and waits for a running seed to finish
func (j *SeedJob) Stop() {
	j.cron.Remove(j.cronID)
	<-j.cron.Stop().Done()
}
