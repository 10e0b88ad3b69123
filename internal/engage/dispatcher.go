package engage

import (
	"sync"

	"go.uber.org/zap"
)

// Dispatcher fans an engagement event out to every subscribed observer,
// synchronously: counter recomputation must be visible to the next read
// that depends on it, so nothing is deferred to a background worker.
type Dispatcher struct {
	observers map[string]Observer
	logger    *zap.Logger
	mu        sync.RWMutex
}

func NewDispatcher(logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		observers: make(map[string]Observer),
		logger:    logger,
	}
}

func (d *Dispatcher) Subscribe(observer Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.observers[observer.Name()] = observer
	d.logger.Info("observer subscribed", zap.String("observer", observer.Name()))
}

func (d *Dispatcher) Unsubscribe(observer Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.observers, observer.Name())
	d.logger.Info("observer unsubscribed", zap.String("observer", observer.Name()))
}

// Notify delivers the event to all observers. An observer failure is logged
// and dropped; there is no retry, the counter simply stays stale until the
// next triggering event recomputes it.
func (d *Dispatcher) Notify(event Event) {
	d.mu.RLock()
	observers := make([]Observer, 0, len(d.observers))
	for _, obs := range d.observers {
		observers = append(observers, obs)
	}
	d.mu.RUnlock()

	for _, observer := range observers {
		if err := observer.Update(event); err != nil {
			d.logger.Error("observer update failed",
				zap.String("observer", observer.Name()),
				zap.String("kind", string(event.Kind)),
				zap.Int64("post_id", event.PostID),
				zap.Error(err),
			)
		}
	}
}
