package signalbus

import (
	"sync"
)

// SignalBus is a broadcast style notification system. Notify never blocks and
// signals are coalesced: a subscriber that has not drained its channel will
// see at most one pending signal.
type SignalBus interface {
	// Notify will notify all the subscriptions created for the given named signal.
	Notify(name string)
	// Subscribe creates a subscription the named signal
	Subscribe(name string) *Subscription
}

var _ SignalBus = &signalBus{}

type signalBus struct {
	mu            sync.RWMutex
	subscriptions map[string][]*Subscription
}

// NewSignalBusMemory creates an in memory signal bus.
func NewSignalBusMemory() SignalBus {
	return &signalBus{
		subscriptions: map[string][]*Subscription{},
	}
}

func (sb *signalBus) Notify(name string) {
	sb.mu.RLock()
	defer sb.mu.RUnlock()
	for _, sub := range sb.subscriptions[name] {
		sub.notify()
	}
}

func (sb *signalBus) Subscribe(name string) *Subscription {
	sub := &Subscription{
		c:    make(chan struct{}, 1),
		bus:  sb,
		name: name,
	}
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.subscriptions[name] = append(sb.subscriptions[name], sub)
	return sub
}

func (sb *signalBus) unsubscribe(sub *Subscription) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	subs := sb.subscriptions[sub.name]
	for i, s := range subs {
		if s == sub {
			sb.subscriptions[sub.name] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	if len(sb.subscriptions[sub.name]) == 0 {
		delete(sb.subscriptions, sub.name)
	}
}

type Subscription struct {
	c         chan struct{}
	bus       *signalBus
	name      string
	closeOnce sync.Once
}

// Signal returns a channel that receives an item when the named signal is
// notified.
func (sub *Subscription) Signal() <-chan struct{} {
	return sub.c
}

// IsSignaled checks if a signal is pending, consuming it if so.
func (sub *Subscription) IsSignaled() bool {
	select {
	case <-sub.c:
		return true
	default:
		return false
	}
}

func (sub *Subscription) notify() {
	// non-blocking send, the channel holds at most one pending signal
	select {
	case sub.c <- struct{}{}:
	default:
	}
}

func (sub *Subscription) Close() {
	sub.closeOnce.Do(func() {
		sub.bus.unsubscribe(sub)
		close(sub.c)
	})
}
