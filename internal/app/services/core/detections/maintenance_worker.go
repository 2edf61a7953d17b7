package detections

import (
	"detection-service/internal/pkg/constvars"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const fallbackMaintenanceSpec = "@every 1m"

// MaintenanceJob is one housekeeping task. Run reports how many entries it removed.
type MaintenanceJob struct {
	Name string
	Run  func() int
}

// MaintenanceWorker runs housekeeping jobs on a cron schedule.
type MaintenanceWorker struct {
	log  *zap.Logger
	spec string
	jobs []MaintenanceJob
	cron *cron.Cron
}

func NewMaintenanceWorker(logger *zap.Logger, spec string, jobs ...MaintenanceJob) *MaintenanceWorker {
	return &MaintenanceWorker{log: logger, spec: spec, jobs: jobs}
}

func (w *MaintenanceWorker) Start() {
	c := cron.New()
	if _, err := c.AddFunc(w.spec, w.runOnce); err != nil {
		w.log.Warn("MaintenanceWorker.Start invalid cron spec; falling back to "+fallbackMaintenanceSpec,
			zap.String(constvars.LoggingCronSpecKey, w.spec),
			zap.Error(err),
		)
		c = cron.New()
		_, _ = c.AddFunc(fallbackMaintenanceSpec, w.runOnce)
	}
	c.Start()
	w.cron = c
}

// Stop waits for a running job to finish.
func (w *MaintenanceWorker) Stop() {
	if w.cron == nil {
		return
	}
	ctx := w.cron.Stop()
	<-ctx.Done()
}

func (w *MaintenanceWorker) runOnce() {
	for _, job := range w.jobs {
		if removed := job.Run(); removed > 0 {
			w.log.Info("MaintenanceWorker evicted idle entries",
				zap.String(constvars.LoggingOperationKey, job.Name),
				zap.Int(constvars.LoggingEvictedKey, removed),
			)
		}
	}
}
