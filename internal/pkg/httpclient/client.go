package httpclient

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client wraps resty for HTTP requests to the fulfillment agency and
// payment gateway.
type Client struct {
	r *resty.Client
}

// New creates a new HTTP client with sensible defaults.
func New() *Client {
	r := resty.New().
		SetTimeout(15 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second)

	return &Client{r: r}
}

// WithTimeout sets a custom timeout.
func (c *Client) WithTimeout(d time.Duration) *Client {
	c.r.SetTimeout(d)
	return c
}

// WithBaseURL sets the base URL for all requests.
func (c *Client) WithBaseURL(url string) *Client {
	c.r.SetBaseURL(url)
	return c
}

// WithBasicAuth sets basic auth credentials.
func (c *Client) WithBasicAuth(user, pass string) *Client {
	c.r.SetBasicAuth(user, pass)
	return c
}

// WithHeader sets a custom header.
func (c *Client) WithHeader(key, value string) *Client {
	c.r.SetHeader(key, value)
	return c
}

// Get sends a GET request with query parameters and returns the body.
func (c *Client) Get(ctx context.Context, url string, query map[string]string) ([]byte, error) {
	req := c.r.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	resp, err := req.Get(url)
	if err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

// Post sends a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, url string, body interface{}) ([]byte, error) {
	req := c.r.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json")
	if body != nil {
		req.SetBody(body)
	}
	resp, err := req.Post(url)
	if err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

// Raw returns the underlying resty client for advanced usage.
func (c *Client) Raw() *resty.Client {
	return c.r
}
