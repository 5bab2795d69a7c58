package ports

import (
	"context"

	"github.com/aretw0/newsmeme/pkg/domain"
)

// Transport performs one action round trip.
// Implementations return an error wrapping domain.ErrTransport or
// domain.ErrMalformedEnvelope when no usable envelope was received.
type Transport interface {
	PostJSON(ctx context.Context, req domain.ActionRequest) (domain.ActionResponse, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, req domain.ActionRequest) (domain.ActionResponse, error)

func (f TransportFunc) PostJSON(ctx context.Context, req domain.ActionRequest) (domain.ActionResponse, error) {
	return f(ctx, req)
}
