// Package notion is a thin wrapper over the Notion API scoped to what the
// status-database publisher needs: finding a scenario's page, creating it,
// and overwriting its columns. Calls are throttled to Notion's documented
// integration rate limit.
package notion

import (
	"context"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// statusDatabaseRPS is Notion's per-integration request budget. Publishing
// a snapshot takes at most two calls, so the default limiter is never the
// bottleneck outside bulk republishing.
const statusDatabaseRPS = 3

// Client is the slice of the Notion API the publisher depends on.
type Client interface {
	QueryDatabase(ctx context.Context, dbID string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error)
	CreatePage(ctx context.Context, req *notionapi.PageCreateRequest) (*notionapi.Page, error)
	UpdatePage(ctx context.Context, pageID string, req *notionapi.PageUpdateRequest) (*notionapi.Page, error)
}

// Option configures the client.
type Option func(*client)

// WithRateLimit overrides the default request throttle. Zero or negative
// disables throttling entirely, which is only sensible in tests.
func WithRateLimit(rps float64) Option {
	return func(c *client) {
		if rps <= 0 {
			c.throttle = nil
			return
		}
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		c.throttle = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

type client struct {
	api      *notionapi.Client
	throttle *rate.Limiter
}

// NewClient builds a throttled client for the given integration token.
func NewClient(token string, opts ...Option) Client {
	c := &client{
		api:      notionapi.NewClient(notionapi.Token(token)),
		throttle: rate.NewLimiter(statusDatabaseRPS, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *client) reserve(ctx context.Context) error {
	if c.throttle == nil {
		return nil
	}
	if err := c.throttle.Wait(ctx); err != nil {
		return eris.Wrap(err, "notion: rate limit")
	}
	return nil
}

func (c *client) QueryDatabase(ctx context.Context, dbID string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	if err := c.reserve(ctx); err != nil {
		return nil, err
	}
	resp, err := c.api.Database.Query(ctx, notionapi.DatabaseID(dbID), req)
	if err != nil {
		return nil, eris.Wrapf(err, "notion: query database %s", dbID)
	}
	return resp, nil
}

func (c *client) CreatePage(ctx context.Context, req *notionapi.PageCreateRequest) (*notionapi.Page, error) {
	if err := c.reserve(ctx); err != nil {
		return nil, err
	}
	page, err := c.api.Page.Create(ctx, req)
	if err != nil {
		return nil, eris.Wrap(err, "notion: create page")
	}
	return page, nil
}

func (c *client) UpdatePage(ctx context.Context, pageID string, req *notionapi.PageUpdateRequest) (*notionapi.Page, error) {
	if err := c.reserve(ctx); err != nil {
		return nil, err
	}
	page, err := c.api.Page.Update(ctx, notionapi.PageID(pageID), req)
	if err != nil {
		return nil, eris.Wrapf(err, "notion: update page %s", pageID)
	}
	return page, nil
}
