package workers

import (
	"sync"
)

// Worker is implemented by anything that runs on a periodic reconcile loop.
type Worker interface {
	GetID() string
	GetWorkerType() string
	Start()
	Stop()
	Reconcile() []error
	GetStopChan() *chan struct{}
	GetSyncGroup() *sync.WaitGroup
	IsRunning() bool
	SetIsRunning(val bool)
}

// BaseWorker carries the state common to every worker. Embed it and provide
// Reconcile plus Start/Stop that delegate to the reconciler.
type BaseWorker struct {
	ID         string
	WorkerType string
	Reconciler Reconciler

	isRunning bool
	imStop    chan struct{}
	syncGroup sync.WaitGroup
}

func (b *BaseWorker) GetID() string {
	return b.ID
}

func (b *BaseWorker) GetWorkerType() string {
	return b.WorkerType
}

func (b *BaseWorker) GetStopChan() *chan struct{} {
	return &b.imStop
}

func (b *BaseWorker) GetSyncGroup() *sync.WaitGroup {
	return &b.syncGroup
}

func (b *BaseWorker) IsRunning() bool {
	return b.isRunning
}

func (b *BaseWorker) SetIsRunning(val bool) {
	b.isRunning = val
}

func (b *BaseWorker) StartWorker(w Worker) {
	b.Reconciler.Start(w)
}

func (b *BaseWorker) StopWorker(w Worker) {
	b.Reconciler.Stop(w)
}
