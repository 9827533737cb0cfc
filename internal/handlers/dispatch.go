package handlers

import (
	"context"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/latoulicious/Reaxn/internal/bot"
)

// DefaultEventTimeout bounds the work done for one event.
const DefaultEventTimeout = 30 * time.Second

// EventHandler processes one bot event.
type EventHandler interface {
	Handle(ctx context.Context, ev bot.Event) error
}

// Dispatcher runs every event in its own goroutine. Failures and panics
// are logged and never stop the loop feeding it.
type Dispatcher struct {
	handler EventHandler
	log     zerolog.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher. A zero timeout means DefaultEventTimeout.
func NewDispatcher(h EventHandler, timeout time.Duration, log zerolog.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultEventTimeout
	}
	return &Dispatcher{handler: h, log: log, timeout: timeout}
}

// Dispatch handles ev asynchronously. Cancelling ctx does not abort events
// already dispatched; Wait drains them.
func (d *Dispatcher) Dispatch(ctx context.Context, ev bot.Event) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.run(context.WithoutCancel(ctx), ev)
	}()
}

// Wait blocks until every dispatched event has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) run(ctx context.Context, ev bot.Event) {
	log := d.log.With().
		Str("event_id", uuid.NewString()).
		Str("event", eventName(ev)).
		Logger()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("event handler panicked")
		}
	}()

	ctx, cancel := context.WithTimeout(log.WithContext(ctx), d.timeout)
	defer cancel()

	start := time.Now()
	if err := d.handler.Handle(ctx, ev); err != nil {
		log.Error().Err(err).Dur("took", time.Since(start)).Msg("event failed")
		return
	}
	log.Debug().Dur("took", time.Since(start)).Msg("event handled")
}

func eventName(ev bot.Event) string {
	switch ev := ev.(type) {
	case bot.CommandReceived:
		return "command:" + ev.Name
	case bot.ControlPressed:
		return "press:" + ev.Payload
	case bot.InlineQueried:
		return "inline"
	default:
		return "unknown"
	}
}
