package newsmeme

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	httpAdapter "github.com/aretw0/newsmeme/pkg/adapters/http"
	"github.com/aretw0/newsmeme/pkg/dispatcher"
	"github.com/aretw0/newsmeme/pkg/domain"
	"github.com/aretw0/newsmeme/pkg/page"
	"github.com/aretw0/newsmeme/pkg/ports"
)

// Version is the release version, overridden at build time with -ldflags.
var Version = "0.1.0-dev"

// Client binds a page to a newsmeme site. Actions submitted through it
// travel over HTTP and their effects land on Page.
type Client struct {
	Page       *page.Page
	Dispatcher *dispatcher.Dispatcher
	Actions    *dispatcher.Actions

	transport *httpAdapter.Client
}

type options struct {
	user           string
	timeout        time.Duration
	failureMessage string
	logger         *slog.Logger
	observer       dispatcher.Observer
	httpClient     *http.Client
	page           *page.Page
}

// Option defines a functional option for configuring the Client.
type Option func(*options)

// WithUser acts as the named user.
func WithUser(name string) Option {
	return func(o *options) { o.user = name }
}

// WithTimeout bounds each round trip.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithTransportFailureMessage shows message on failed round trips instead of
// ignoring them.
func WithTransportFailureMessage(message string) Option {
	return func(o *options) { o.failureMessage = message }
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithObserver registers a dispatch observer, e.g. metrics.
func WithObserver(obs dispatcher.Observer) Option {
	return func(o *options) { o.observer = obs }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithPage uses an existing page model instead of an empty one at baseURL.
func WithPage(p *page.Page) Option {
	return func(o *options) { o.page = p }
}

// New creates a Client for the site at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	var clientOpts []httpAdapter.ClientOption
	if o.httpClient != nil {
		clientOpts = append(clientOpts, httpAdapter.WithHTTPClient(o.httpClient))
	}
	if o.timeout > 0 {
		clientOpts = append(clientOpts, httpAdapter.WithTimeout(o.timeout))
	}
	if o.user != "" {
		clientOpts = append(clientOpts, httpAdapter.WithUser(o.user))
	}
	if o.logger != nil {
		clientOpts = append(clientOpts, httpAdapter.WithClientLogger(o.logger))
	}
	transport, err := httpAdapter.NewClient(baseURL, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create transport: %w", err)
	}

	p := o.page
	if p == nil {
		p = page.New(baseURL)
	}

	var dispatchOpts []dispatcher.Option
	if o.logger != nil {
		dispatchOpts = append(dispatchOpts, dispatcher.WithLogger(o.logger))
	}
	if o.observer != nil {
		dispatchOpts = append(dispatchOpts, dispatcher.WithObserver(o.observer))
	}
	if o.failureMessage != "" {
		dispatchOpts = append(dispatchOpts, dispatcher.WithTransportFailureMessage(o.failureMessage))
	}
	d := dispatcher.New(transport, p, dispatchOpts...)

	return &Client{
		Page:       p,
		Dispatcher: d,
		Actions:    dispatcher.NewActions(d, p),
		transport:  transport,
	}, nil
}

// Close waits for in-flight actions and stops the dispatch loop.
func (c *Client) Close() {
	c.Dispatcher.Close()
}

// Demo content created by Seed and mirrored by DemoPage.
var (
	demoPosts = []domain.Post{
		{ID: 42, Author: "alice", Score: 16},
		{ID: 7, Author: "bob", Score: 3},
	}
	demoComments = []domain.Comment{
		{ID: 9, PostID: 42, Author: "carol", Score: 2},
		{ID: 10, PostID: 42, Author: "bob"},
		{ID: 11, PostID: 7, Author: "alice", Score: 1},
	}
)

// Seed fills store with a small demo site.
func Seed(ctx context.Context, store ports.VoteStore) error {
	for _, post := range demoPosts {
		if err := store.AddPost(ctx, post); err != nil {
			return fmt.Errorf("failed to seed post %d: %w", post.ID, err)
		}
	}
	for _, comment := range demoComments {
		if err := store.AddComment(ctx, comment); err != nil {
			return fmt.Errorf("failed to seed comment %d: %w", comment.ID, err)
		}
	}
	return nil
}

// DemoPage renders the seeded site as a page model at url.
func DemoPage(url string) *page.Page {
	p := page.New(url)
	for _, post := range demoPosts {
		p.Add(dispatcher.ElementID(dispatcher.PrefixVote, post.ID), "vote").
			Add(dispatcher.ElementID(dispatcher.PrefixScore, post.ID), fmt.Sprint(post.Score))
	}
	for _, c := range demoComments {
		p.Add(dispatcher.ElementID(dispatcher.PrefixComment, c.ID), fmt.Sprintf("comment by %s", c.Author)).
			Add(dispatcher.ElementID(dispatcher.PrefixVoteComment, c.ID), "vote").
			Add(dispatcher.ElementID(dispatcher.PrefixScoreComment, c.ID), fmt.Sprint(c.Score))
	}
	return p
}
