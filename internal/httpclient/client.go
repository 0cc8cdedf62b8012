package httpclient

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"
)

type Config struct {
	Timeout            time.Duration
	RetryMaxElapsed    time.Duration
	MaxIdleConns       int
	IdleConnTimeout    time.Duration
	BreakerMaxFailures uint32
	BreakerTimeout     time.Duration
}

func DefaultConfig() Config {
	return Config{
		Timeout:            15 * time.Second,
		RetryMaxElapsed:    30 * time.Second,
		MaxIdleConns:       32,
		IdleConnTimeout:    90 * time.Second,
		BreakerMaxFailures: 5,
		BreakerTimeout:     30 * time.Second,
	}
}

// Client wraps http.Client with exponential-backoff retries on
// transport errors and 5xx responses, behind a circuit breaker.
// 4xx responses are returned to the caller without retrying. A request
// whose body cannot be replayed (Body set, GetBody nil) gets a single
// attempt.
type Client struct {
	http *http.Client
	cb   *gobreaker.CircuitBreaker
	conf Config
}

func New(conf Config) *Client {
	tr := &http.Transport{
		DialContext:     (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
		MaxIdleConns:    conf.MaxIdleConns,
		IdleConnTimeout: conf.IdleConnTimeout,
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "upstream",
		MaxRequests: 1,
		Timeout:     conf.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= conf.BreakerMaxFailures
		},
	})
	return &Client{
		http: &http.Client{Transport: tr, Timeout: conf.Timeout},
		cb:   cb,
		conf: conf,
	}
}

func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	v, err := c.cb.Execute(func() (any, error) {
		return c.doRetry(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return v.(*http.Response), nil
}

func (c *Client) doRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	if req.Body != nil && req.GetBody == nil {
		return c.attempt(ctx, req)
	}

	var resp *http.Response
	first := true
	operation := func() error {
		if !first && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return backoff.Permanent(err)
			}
			req.Body = body
		}
		first = false

		r, err := c.attempt(ctx, req)
		if err != nil {
			return err
		}
		resp = r
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = c.conf.RetryMaxElapsed
	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) attempt(ctx context.Context, req *http.Request) (*http.Response, error) {
	r, err := c.http.Do(req.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	if r.StatusCode >= 500 {
		io.Copy(io.Discard, r.Body)
		r.Body.Close()
		return nil, fmt.Errorf("upstream returned %d", r.StatusCode)
	}
	return r, nil
}
