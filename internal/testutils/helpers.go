package testutils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	httpAdapter "github.com/aretw0/newsmeme/pkg/adapters/http"
	"github.com/aretw0/newsmeme/pkg/dispatcher"
	"github.com/aretw0/newsmeme/pkg/ports"
	"github.com/stretchr/testify/require"
)

// WaitTimeout bounds how long WaitOutcome waits for an action.
const WaitTimeout = 2 * time.Second

// WaitOutcome blocks until p is handled by the dispatch loop.
// It fails the test immediately if that takes longer than WaitTimeout.
func WaitOutcome(t *testing.T, p *dispatcher.Pending) dispatcher.Outcome {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), WaitTimeout)
	defer cancel()

	out, err := p.Wait(ctx)
	require.NoError(t, err, "action was not handled in time")
	return out
}

// ServeActions starts the action server for store. Extra routes are mounted
// next to it, which lets tests serve hand-written envelopes.
// The server is closed when the test ends.
func ServeActions(t *testing.T, store ports.VoteStore, extra map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.Handle("/", httpAdapter.NewHandler(store))
	for pattern, h := range extra {
		mux.HandleFunc(pattern, h)
	}

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// Envelope returns a handler that always replies with body as JSON.
func Envelope(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}
}
