package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
)

// closeTrackingBody records whether a response body was closed.
type closeTrackingBody struct {
	io.Reader
	closed bool
}

func (b *closeTrackingBody) Close() error {
	b.closed = true
	return nil
}

// staticTransport answers every request with a canned status, handing out
// bodies the test can inspect afterwards.
type staticTransport struct {
	status int
	bodies []*closeTrackingBody
}

func (t *staticTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	body := &closeTrackingBody{Reader: strings.NewReader("{}")}
	t.bodies = append(t.bodies, body)
	return &http.Response{
		StatusCode: t.status,
		Body:       body,
		Header:     http.Header{},
		Request:    req,
	}, nil
}

// TestDoWithFallback_BuildErrorClosesHeldResponse tests that a request-build
// failure on a later base does not leak the 5xx response held from an
// earlier one.
func TestDoWithFallback_BuildErrorClosesHeldResponse(t *testing.T) {
	transport := &staticTransport{status: http.StatusInternalServerError}
	hc := &http.Client{Transport: transport}

	buildErr := errors.New("bad request spec")
	_, err := doWithFallback(context.Background(), hc, []string{"http://primary", "http://legacy"}, func(base string) (*http.Request, error) {
		if base == "http://legacy" {
			return nil, buildErr
		}
		return http.NewRequest("GET", base+"/health", nil)
	})
	if !errors.Is(err, buildErr) {
		t.Fatalf("err = %v, want the build error", err)
	}
	if len(transport.bodies) != 1 {
		t.Fatalf("requests sent = %d, want 1", len(transport.bodies))
	}
	if !transport.bodies[0].closed {
		t.Error("held response body was not closed")
	}
}

// TestDoWithFallback_ReturnsLastResponse tests that when every base answers
// with a retryable status the final response is surfaced, with the earlier
// ones closed.
func TestDoWithFallback_ReturnsLastResponse(t *testing.T) {
	transport := &staticTransport{status: http.StatusServiceUnavailable}
	hc := &http.Client{Transport: transport}

	resp, err := doWithFallback(context.Background(), hc, []string{"http://primary", "http://legacy"}, func(base string) (*http.Request, error) {
		return http.NewRequest("GET", base+"/health", nil)
	})
	if err != nil {
		t.Fatalf("doWithFallback: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if len(transport.bodies) != 2 {
		t.Fatalf("requests sent = %d, want 2", len(transport.bodies))
	}
	if !transport.bodies[0].closed {
		t.Error("first response body was not closed")
	}
	if transport.bodies[1].closed {
		t.Error("returned response body must stay open for the caller")
	}
}
