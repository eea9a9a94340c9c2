package services

import (
	"sync"
)

// KeyLock serializes mutating commands per connector. Commands on different
// connectors proceed in parallel, two commands on the same connector never
// interleave. Shared by the facade and the scheduled sync worker so scheduled
// runs serialize against operator commands too.
type KeyLock struct {
	locks sync.Map
}

func NewKeyLock() *KeyLock {
	return &KeyLock{}
}

// Lock acquires the mutex for the given connector and returns its unlock func.
func (l *KeyLock) Lock(workspaceID string, key string) func() {
	m, _ := l.locks.LoadOrStore(workspaceID+"/"+key, &sync.Mutex{})
	mu := m.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
