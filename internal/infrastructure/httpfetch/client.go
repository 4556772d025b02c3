// Package httpfetch implements the HTTP fetch collaborator: a shared resty
// client with a per-host request-rate ceiling and a global in-flight request
// bound applied uniformly to discovery probes and document downloads.
package httpfetch

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"RISScanner/internal/ports"
)

const (
	defaultUserAgent   = "Mozilla/5.0 (compatible; RISScanner/1.0)"
	defaultTimeout     = 30 * time.Second
	defaultConcurrency = 5
	defaultRPS         = 2
)

// Options configures the shared HTTP client.
type Options struct {
	UserAgent         string
	DefaultTimeout    time.Duration
	MaxConcurrent     int
	RequestsPerSecond float64
}

func (o Options) withDefaults() Options {
	if o.UserAgent == "" {
		o.UserAgent = defaultUserAgent
	}
	if o.DefaultTimeout <= 0 {
		o.DefaultTimeout = defaultTimeout
	}
	if o.MaxConcurrent <= 0 {
		o.MaxConcurrent = defaultConcurrency
	}
	if o.RequestsPerSecond <= 0 {
		o.RequestsPerSecond = defaultRPS
	}
	return o
}

// Client is the concrete ports.Fetcher. The counting semaphore bounds total
// in-flight requests across the whole run; the rate limiters smooth the
// request rate per target host below it, so one slow municipality never
// throttles the others.
type Client struct {
	http           *resty.Client
	sem            chan struct{}
	defaultTimeout time.Duration

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      rate.Limit
	burst    int
}

var _ ports.Fetcher = (*Client)(nil)

// NewClient builds the shared client.
func NewClient(opts Options) *Client {
	opts = opts.withDefaults()

	c := &Client{
		sem:            make(chan struct{}, opts.MaxConcurrent),
		defaultTimeout: opts.DefaultTimeout,
		limiters:       make(map[string]*rate.Limiter),
		rps:            rate.Limit(opts.RequestsPerSecond),
		burst:          opts.MaxConcurrent,
	}

	httpClient := resty.New()
	httpClient.SetHeader("User-Agent", opts.UserAgent)
	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return c.limiterFor(req.URL).Wait(req.Context())
	})
	c.http = httpClient

	return c
}

// limiterFor returns the rate limiter of the request's target host, creating
// it on first use.
func (c *Client) limiterFor(rawURL string) *rate.Limiter {
	host := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		host = u.Host
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	limiter, ok := c.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(c.rps, c.burst)
		c.limiters[host] = limiter
	}
	return limiter
}

// Fetch issues one request with an explicit timeout. Transport failures and
// timeouts come back as *ports.NetworkError; HTTP error statuses do not.
func (c *Client) Fetch(ctx context.Context, method, rawURL string, timeout time.Duration) (*ports.FetchResult, error) {
	select {
	case c.sem <- struct{}{}:
		defer func() { <-c.sem }()
	case <-ctx.Done():
		return nil, &ports.NetworkError{URL: rawURL, Err: ctx.Err()}
	}

	if timeout <= 0 {
		timeout = c.defaultTimeout
	}
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	res, err := c.http.R().SetContext(reqCtx).Execute(method, rawURL)
	if err != nil {
		return nil, &ports.NetworkError{URL: rawURL, Err: err}
	}

	finalURL := rawURL
	if res.RawResponse != nil && res.RawResponse.Request != nil && res.RawResponse.Request.URL != nil {
		finalURL = res.RawResponse.Request.URL.String()
	}

	return &ports.FetchResult{
		StatusCode: res.StatusCode(),
		Header:     res.Header(),
		Body:       res.Body(),
		FinalURL:   finalURL,
	}, nil
}
