package http

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aretw0/newsmeme/internal/logging"
	"github.com/aretw0/newsmeme/pkg/domain"
)

// DefaultTimeout bounds one action round trip.
const DefaultTimeout = 10 * time.Second

// maxEnvelopeSize caps how much of a reply body is read.
const maxEnvelopeSize = 1 << 20

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s replied %d %s", domain.ErrTransport, e.URL, e.Code, http.StatusText(e.Code))
}

func (e *StatusError) Unwrap() error { return domain.ErrTransport }

// Client implements ports.Transport over HTTP.
// Requests are form-encoded POSTs; replies must be a JSON envelope.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	header     http.Header
	logger     *slog.Logger
}

// ClientOption defines a functional option for configuring the Client.
type ClientOption func(*Client)

// WithHTTPClient uses a copy of hc for round trips. The copy shares hc's
// Transport and Jar, but hc itself is never modified.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc == nil {
			return
		}
		cp := *hc
		c.httpClient = &cp
	}
}

// WithTimeout sets the round trip timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.header.Set(key, value)
	}
}

// WithUser identifies the acting user to the reference server.
func WithUser(name string) ClientOption {
	return WithHeader(UserHeader, name)
}

// WithClientLogger configures the structured logger.
func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a transport. Relative action URLs are resolved against
// baseURL; an empty baseURL requires absolute action URLs.
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		header:     make(http.Header),
		logger:     logging.NewNop(),
	}

	if baseURL != "" {
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
		}
		c.baseURL = u
	}

	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// PostJSON performs the action round trip.
func (c *Client) PostJSON(ctx context.Context, req domain.ActionRequest) (domain.ActionResponse, error) {
	target, err := c.resolve(req.URL)
	if err != nil {
		return domain.ActionResponse{}, err
	}

	form := url.Values{}
	for k, v := range req.Params {
		form.Set(k, v)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(form.Encode()))
	if err != nil {
		return domain.ActionResponse{}, fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	for k, vs := range c.header {
		httpReq.Header[k] = vs
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Requested-With", "XMLHttpRequest")
	if req.ID != "" {
		httpReq.Header.Set("X-Request-ID", req.ID)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return domain.ActionResponse{}, fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxEnvelopeSize))
		return domain.ActionResponse{}, &StatusError{Code: resp.StatusCode, URL: target}
	}

	envelope, err := domain.DecodeResponse(io.LimitReader(resp.Body, maxEnvelopeSize))
	if err != nil {
		c.logger.Debug("Undecodable action reply", "url", target, "content_type", resp.Header.Get("Content-Type"), "error", err)
		return domain.ActionResponse{}, err
	}
	if len(envelope.Skipped) > 0 {
		c.logger.Debug("Ignored action reply fields", "url", target, "keys", envelope.Skipped)
	}
	return envelope, nil
}

func (c *Client) resolve(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: invalid action url %q: %v", domain.ErrTransport, raw, err)
	}
	if u.IsAbs() {
		return u.String(), nil
	}
	if c.baseURL == nil {
		return "", fmt.Errorf("%w: relative action url %q without base url", domain.ErrTransport, raw)
	}
	return c.baseURL.ResolveReference(u).String(), nil
}
