package dispatcher

import (
	"context"

	"github.com/aretw0/newsmeme/pkg/domain"
)

// Outcome is what happened to one submitted action.
type Outcome struct {
	Request domain.ActionRequest

	// Response is the decoded envelope; zero when the round trip failed.
	Response domain.ActionResponse

	// Effect is the effect that was applied to the page.
	Effect domain.Effect

	// Err is set when no envelope was received, when the action was
	// rejected before sending, or when the success callback panicked.
	Err error
}

// Pending is the future of a submitted action. It resolves exactly once.
type Pending struct {
	req     domain.ActionRequest
	done    chan struct{}
	outcome Outcome
}

func newPending(req domain.ActionRequest) *Pending {
	return &Pending{req: req, done: make(chan struct{})}
}

func resolved(req domain.ActionRequest, err error) *Pending {
	p := newPending(req)
	p.resolve(Outcome{Request: req, Effect: domain.NoEffect(), Err: err})
	return p
}

func (p *Pending) resolve(o Outcome) {
	p.outcome = o
	close(p.done)
}

// Request returns the request that was submitted.
func (p *Pending) Request() domain.ActionRequest { return p.req }

// Done is closed once the effect has been applied.
func (p *Pending) Done() <-chan struct{} { return p.done }

// Wait blocks until the action is handled or ctx ends.
// The returned error is ctx's; failures of the action itself are in Outcome.Err.
func (p *Pending) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-p.done:
		return p.outcome, nil
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}
