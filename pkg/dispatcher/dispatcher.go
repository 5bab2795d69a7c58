package dispatcher

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/aretw0/newsmeme/internal/logging"
	"github.com/aretw0/newsmeme/pkg/domain"
	"github.com/aretw0/newsmeme/pkg/ports"
	"github.com/google/uuid"
)

// SuccessFunc receives the envelope of a successful action that asked for
// neither a redirect nor a reload.
type SuccessFunc func(resp domain.ActionResponse)

// Surface is the part of the page the dispatcher itself touches.
type Surface interface {
	ports.Notifier
	ports.Navigator
}

type reply struct {
	pending   *Pending
	resp      domain.ActionResponse
	err       error
	onSuccess SuccessFunc
}

// Dispatcher sends actions and applies their effects.
// It is safe for concurrent use; effects are applied serially.
type Dispatcher struct {
	transport ports.Transport
	surface   Surface

	logger         *slog.Logger
	observer       Observer
	failureMessage string
	queueSize      int
	newID          func() string

	replies  chan reply
	loopDone chan struct{}
	inflight sync.WaitGroup

	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

// New creates a Dispatcher and starts its dispatch loop.
// Call Close to release the loop once no more actions will be submitted.
func New(transport ports.Transport, surface Surface, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		transport: transport,
		surface:   surface,
		logger:    logging.NewNop(),
		queueSize: DefaultQueueSize,
		newID:     uuid.NewString,
		loopDone:  make(chan struct{}),
	}

	for _, opt := range opts {
		opt(d)
	}

	d.replies = make(chan reply, d.queueSize)
	go d.loop()
	return d
}

// Submit posts params to url and returns immediately.
// onSuccess may be nil; it runs on the dispatch loop when the reply is a
// success with neither redirect nor reload.
func (d *Dispatcher) Submit(url string, params map[string]string, onSuccess SuccessFunc) *Pending {
	req := domain.ActionRequest{
		ID:     d.newID(),
		URL:    url,
		Params: maps.Clone(params),
	}

	if url == "" {
		d.logger.Warn("Action rejected", "request_id", req.ID, "error", domain.ErrEmptyURL)
		return resolved(req, domain.ErrEmptyURL)
	}

	d.mu.RLock()
	if d.closed {
		d.mu.RUnlock()
		return resolved(req, domain.ErrDispatcherClosed)
	}
	d.inflight.Add(1)
	d.mu.RUnlock()

	p := newPending(req)
	d.logger.Debug("Action submitted", "request_id", req.ID, "url", url, "params", len(params))

	go d.roundTrip(p, onSuccess)
	return p
}

// ShowMessage replaces the message region with text tagged by category.
// text is inserted as is.
func (d *Dispatcher) ShowMessage(text, category string) {
	d.surface.ShowMessage(text, category)
}

// Close stops accepting actions, waits for in-flight ones to be handled and
// stops the dispatch loop. It must not be called from a success callback.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		d.mu.Lock()
		d.closed = true
		d.mu.Unlock()

		d.inflight.Wait()
		close(d.replies)
		<-d.loopDone
	})
}

func (d *Dispatcher) roundTrip(p *Pending, onSuccess SuccessFunc) {
	defer d.inflight.Done()

	start := time.Now()
	resp, err := d.transport.PostJSON(context.Background(), p.req)
	if d.observer != nil {
		d.observer.RoundTrip(p.req.URL, time.Since(start), err)
	}

	d.replies <- reply{pending: p, resp: resp, err: err, onSuccess: onSuccess}
}

func (d *Dispatcher) loop() {
	defer close(d.loopDone)
	for r := range d.replies {
		r.pending.resolve(d.handle(r))
	}
}

func (d *Dispatcher) handle(r reply) Outcome {
	req := r.pending.req
	out := Outcome{Request: req, Response: r.resp, Err: r.err}
	log := d.logger.With("request_id", req.ID, "url", req.URL)

	switch {
	case r.err != nil && d.failureMessage == "":
		log.Warn("Action failed silently", "error", r.err)
		out.Effect = domain.NoEffect()
	case r.err != nil:
		log.Warn("Action failed", "error", r.err)
		out.Effect = domain.ShowError(d.failureMessage)
	default:
		out.Effect = domain.Resolve(r.resp, r.onSuccess != nil)
	}

	if err := d.apply(out.Effect, r.onSuccess); err != nil {
		log.Error("Success callback failed", "error", err)
		out.Err = err
	}

	if d.observer != nil {
		d.observer.EffectApplied(out.Effect.Kind)
	}
	log.Debug("Action handled", "effect", out.Effect.Kind)
	return out
}

func (d *Dispatcher) apply(eff domain.Effect, onSuccess SuccessFunc) (err error) {
	switch eff.Kind {
	case domain.EffectShowError:
		d.ShowMessage(eff.Message, domain.CategoryError)
	case domain.EffectNavigate:
		d.surface.Navigate(eff.URL)
	case domain.EffectReload:
		d.surface.Reload()
	case domain.EffectCallback:
		defer func() {
			if rec := recover(); rec != nil {
				err = fmt.Errorf("%w: %v", domain.ErrCallbackPanic, rec)
			}
		}()
		onSuccess(eff.Response)
	}
	return nil
}
