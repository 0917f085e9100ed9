package jobs

import (
	"time"

	"gearshare-backend/internal/config"
	"gearshare-backend/internal/logger"
	"gearshare-backend/internal/repository"
	"gearshare-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs. It works against the repository
// interfaces, not the concrete store, so each sweep can be tested offline.
type JobRunner struct {
	rentalRepo repository.RentalRequestRepository
	eventRepo  repository.DeliveryEventRepository
	cache      service.SnapshotCache
	config     *config.Config
	now        func() time.Time
}

func NewJobRunner(
	rentalRepo repository.RentalRequestRepository,
	eventRepo repository.DeliveryEventRepository,
	cache service.SnapshotCache,
	cfg *config.Config,
) *JobRunner {
	return &JobRunner{
		rentalRepo: rentalRepo,
		eventRepo:  eventRepo,
		cache:      cache,
		config:     cfg,
		now:        time.Now,
	}
}

// Config exposes the configuration for the scheduler's job registration.
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAll runs every job once (for manual execution).
func (jr *JobRunner) RunAll() {
	jr.AdvanceDeliveries()
	jr.MarkOverdueReturns()
	jr.ExpireStalePending()
}
