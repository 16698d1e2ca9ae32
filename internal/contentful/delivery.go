package contentful

import (
	"context"
	"net/http"
	"net/url"
)

// DeliveryClient reads published content.
type DeliveryClient struct {
	c *client
}

// NewDeliveryClient creates a delivery API client. Host defaults to
// DefaultDeliveryHost.
func NewDeliveryClient(config ClientConfig) (*DeliveryClient, error) {
	c, err := newClient(config, DefaultDeliveryHost)
	if err != nil {
		return nil, err
	}
	return &DeliveryClient{c: c}, nil
}

// Sync performs an initial sync and returns the raw response page.
// Follow-up pages (nextPageUrl) are not requested.
func (d *DeliveryClient) Sync(ctx context.Context) ([]byte, error) {
	return d.c.do(ctx, request{
		method: http.MethodGet,
		path:   "/sync",
		query:  url.Values{"initial": {"true"}},
	})
}

// Locales returns the raw locale listing of the environment.
func (d *DeliveryClient) Locales(ctx context.Context) ([]byte, error) {
	return d.c.do(ctx, request{method: http.MethodGet, path: "/locales"})
}
