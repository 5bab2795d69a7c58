package dispatcher_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/aretw0/newsmeme/internal/testutils"
	"github.com/aretw0/newsmeme/pkg/dispatcher"
	"github.com/aretw0/newsmeme/pkg/domain"
)

// StubTransport replies from a fixed table and records every request.
type StubTransport struct {
	mu       sync.Mutex
	Replies  map[string]domain.ActionResponse
	Failures map[string]error
	Requests []domain.ActionRequest
}

func NewStubTransport() *StubTransport {
	return &StubTransport{
		Replies:  make(map[string]domain.ActionResponse),
		Failures: make(map[string]error),
	}
}

func (s *StubTransport) Reply(url string, resp domain.ActionResponse) *StubTransport {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Replies[url] = resp
	return s
}

func (s *StubTransport) Fail(url string, err error) *StubTransport {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Failures[url] = err
	return s
}

func (s *StubTransport) PostJSON(ctx context.Context, req domain.ActionRequest) (domain.ActionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Requests = append(s.Requests, req)

	if err, ok := s.Failures[req.URL]; ok {
		return domain.ActionResponse{}, err
	}
	if resp, ok := s.Replies[req.URL]; ok {
		return resp, nil
	}
	return domain.ActionResponse{}, fmt.Errorf("%w: no route for %s", domain.ErrTransport, req.URL)
}

func (s *StubTransport) RequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Requests)
}

// GatedTransport holds each reply until its gate is released.
type GatedTransport struct {
	mu      sync.Mutex
	gates   map[string]chan struct{}
	replies map[string]domain.ActionResponse
}

func NewGatedTransport() *GatedTransport {
	return &GatedTransport{
		gates:   make(map[string]chan struct{}),
		replies: make(map[string]domain.ActionResponse),
	}
}

func (g *GatedTransport) Hold(url string, resp domain.ActionResponse) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gates[url] = make(chan struct{})
	g.replies[url] = resp
}

func (g *GatedTransport) Release(url string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	close(g.gates[url])
}

func (g *GatedTransport) PostJSON(ctx context.Context, req domain.ActionRequest) (domain.ActionResponse, error) {
	g.mu.Lock()
	gate := g.gates[req.URL]
	resp := g.replies[req.URL]
	g.mu.Unlock()

	<-gate
	return resp, nil
}

func wait(t *testing.T, p *dispatcher.Pending) dispatcher.Outcome {
	t.Helper()
	return testutils.WaitOutcome(t, p)
}
