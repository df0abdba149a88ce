package logging

import (
	"context"

	"github.com/serikch/evpredict/core/logger"
	"github.com/serikch/evpredict/core/predict"
	"github.com/serikch/evpredict/internal/eventbus"
)

// Recorder drains prediction events from the bus into a LogStore.
type Recorder struct {
	store   LogStore
	bus     *eventbus.Bus[predict.Event]
	log     logger.Logger
	done    chan struct{}
	started bool
}

func NewRecorder(store LogStore, bus *eventbus.Bus[predict.Event], log logger.Logger) *Recorder {
	return &Recorder{store: store, bus: bus, log: log, done: make(chan struct{})}
}

// Start consumes events until the context is cancelled or the bus closes.
func (r *Recorder) Start(ctx context.Context) {
	r.started = true
	sub := r.bus.Subscribe()
	go func() {
		defer close(r.done)
		for {
			select {
			case <-ctx.Done():
				r.bus.Unsubscribe(sub)
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				rec := LogRecord{
					Timestamp:   ev.Timestamp,
					SessionID:   ev.SessionID,
					VehicleType: ev.VehicleType,
					Result:      ev.Result,
				}
				if err := r.store.Append(ctx, rec); err != nil {
					r.log.Errorf("append prediction log: %v", err)
				}
			}
		}
	}()
}

// Wait blocks until the consume loop has exited. It returns immediately when
// the recorder was never started.
func (r *Recorder) Wait() {
	if !r.started {
		return
	}
	<-r.done
}
