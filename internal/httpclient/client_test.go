package httpclient

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker"
)

func testConfig() Config {
	conf := DefaultConfig()
	conf.RetryMaxElapsed = 50 * time.Millisecond
	conf.BreakerMaxFailures = 2
	conf.BreakerTimeout = time.Minute
	return conf
}

func TestDoReplaysBodyOnRetry(t *testing.T) {
	var calls int32
	var bodies []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(b))
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	conf := testConfig()
	conf.RetryMaxElapsed = 5 * time.Second
	c := New(conf)

	req, err := http.NewRequest(http.MethodPost, srv.URL, bytes.NewReader([]byte("hello world")))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := c.Do(context.Background(), req)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	resp.Body.Close()

	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("server saw %d requests, want 2", got)
	}
	for i, b := range bodies {
		if b != "hello world" {
			t.Fatalf("request %d body = %q, want %q", i+1, b, "hello world")
		}
	}
}

func TestDoSingleAttemptWhenBodyNotReplayable(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(testConfig())

	// Wrapping the reader hides the concrete type, so net/http does
	// not set GetBody and the request cannot be replayed.
	body := struct{ io.Reader }{bytes.NewReader([]byte("one shot"))}
	req, err := http.NewRequest(http.MethodPost, srv.URL, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if req.GetBody != nil {
		t.Fatal("test setup: GetBody should be nil")
	}

	if _, err := c.Do(context.Background(), req); err == nil {
		t.Fatal("expected error from 5xx")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("server saw %d requests, want exactly 1", got)
	}
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(testConfig())

	for i := 0; i < 2; i++ {
		req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
		if _, err := c.Do(context.Background(), req); err == nil {
			t.Fatalf("call %d: expected error from 5xx", i+1)
		}
	}
	before := atomic.LoadInt32(&calls)

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	_, err := c.Do(context.Background(), req)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("err = %v, want open circuit", err)
	}
	if got := atomic.LoadInt32(&calls); got != before {
		t.Fatalf("open breaker still reached the server (%d -> %d requests)", before, got)
	}
}
