package workers

import (
	"time"

	"github.com/hirewire/control-tower/pkg/logger"
	"github.com/hirewire/control-tower/pkg/metrics"
	"github.com/hirewire/control-tower/pkg/services/signalbus"
)

// Reconciler runs a worker's Reconcile on a fixed interval and whenever the
// worker's signal is notified on the bus.
type Reconciler struct {
	SignalBus      signalbus.SignalBus
	ReconcilePeriod time.Duration
}

func (r *Reconciler) Start(worker Worker) {
	*worker.GetStopChan() = make(chan struct{})
	worker.GetSyncGroup().Add(1)
	worker.SetIsRunning(true)

	period := r.ReconcilePeriod
	if period == 0 {
		period = 30 * time.Second
	}

	go func() {
		sub := r.SignalBus.Subscribe("reconcile:" + worker.GetWorkerType())
		defer sub.Close()

		ticker := time.NewTicker(period)
		defer ticker.Stop()

		// run once on startup so a restart does not wait a full period
		r.runReconcile(worker)

		for {
			select {
			case <-ticker.C:
				r.runReconcile(worker)
			case <-sub.Signal():
				r.runReconcile(worker)
			case <-*worker.GetStopChan():
				worker.GetSyncGroup().Done()
				return
			}
		}
	}()
}

func (r *Reconciler) Stop(worker Worker) {
	if !worker.IsRunning() {
		return
	}
	worker.SetIsRunning(false)
	close(*worker.GetStopChan())
	worker.GetSyncGroup().Wait()
}

func (r *Reconciler) runReconcile(worker Worker) {
	start := time.Now()
	errs := worker.Reconcile()
	metrics.UpdateReconcilerDurationMetric(worker.GetWorkerType(), start)
	if len(errs) == 0 {
		metrics.IncreaseReconcilerSuccessCount(worker.GetWorkerType())
		return
	}
	metrics.IncreaseReconcilerFailureCount(worker.GetWorkerType())
	for _, err := range errs {
		logger.Logger.Error(err)
	}
}
