package service

import (
	"context"
	"sync"

	"github.com/bnema/renderfarm/internal/domain"
	"github.com/bnema/renderfarm/internal/port"
)

// EventBus fans status events out to in-process subscribers (the SSE
// endpoint). It doubles as a StatusReporter.
type EventBus struct {
	subscribers map[int64][]chan domain.StatusEvent
	mu          sync.RWMutex
}

func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[int64][]chan domain.StatusEvent),
	}
}

func (eb *EventBus) Subscribe(jobID int64) chan domain.StatusEvent {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	ch := make(chan domain.StatusEvent, 16)
	eb.subscribers[jobID] = append(eb.subscribers[jobID], ch)
	return ch
}

func (eb *EventBus) Unsubscribe(jobID int64, ch chan domain.StatusEvent) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	subs := eb.subscribers[jobID]
	for i, sub := range subs {
		if sub == ch {
			eb.subscribers[jobID] = append(subs[:i], subs[i+1:]...)
			close(ch)
			break
		}
	}

	if len(eb.subscribers[jobID]) == 0 {
		delete(eb.subscribers, jobID)
	}
}

func (eb *EventBus) Publish(ev domain.StatusEvent) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	for _, ch := range eb.subscribers[ev.JobID] {
		select {
		case ch <- ev:
		default:
			// Drop event if subscriber is slow
		}
	}
}

func (eb *EventBus) Report(_ context.Context, ev domain.StatusEvent) {
	eb.Publish(ev)
}

var _ port.StatusReporter = (*EventBus)(nil)
