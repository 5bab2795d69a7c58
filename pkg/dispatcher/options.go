package dispatcher

import (
	"log/slog"
	"time"

	"github.com/aretw0/newsmeme/pkg/domain"
)

// DefaultQueueSize is the number of replies buffered ahead of the dispatch loop.
const DefaultQueueSize = 64

// Observer receives dispatch events, e.g. for metrics.
type Observer interface {
	RoundTrip(url string, elapsed time.Duration, err error)
	EffectApplied(kind domain.EffectKind)
}

// Option defines a functional option for configuring the Dispatcher.
type Option func(*Dispatcher)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithObserver registers an Observer for round trips and applied effects.
func WithObserver(o Observer) Option {
	return func(d *Dispatcher) {
		d.observer = o
	}
}

// WithTransportFailureMessage shows message in the message region whenever a
// round trip fails. By default such failures are silent.
func WithTransportFailureMessage(message string) Option {
	return func(d *Dispatcher) {
		d.failureMessage = message
	}
}

// WithQueueSize sets the reply buffer of the dispatch loop.
func WithQueueSize(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.queueSize = n
		}
	}
}

// WithIDGenerator overrides how request correlation ids are created.
func WithIDGenerator(gen func() string) Option {
	return func(d *Dispatcher) {
		d.newID = gen
	}
}
