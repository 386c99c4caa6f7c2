package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// doWithFallback tries each base URL in order until one answers usefully.
// A network failure, a 404 (route not deployed there), or a 5xx moves on to
// the next base; any other response is returned as-is so client errors like
// validation failures are never retried.
func doWithFallback(ctx context.Context, hc *http.Client, bases []string, build func(base string) (*http.Request, error)) (*http.Response, error) {
	if len(bases) == 0 {
		return nil, errors.New("no base urls configured")
	}

	var lastErr error
	var lastResp *http.Response
	for _, base := range bases {
		req, err := build(base)
		if err != nil {
			if lastResp != nil {
				lastResp.Body.Close()
			}
			return nil, err
		}
		resp, err := hc.Do(req.WithContext(ctx))
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode == http.StatusNotFound || resp.StatusCode >= 500 {
			if lastResp != nil {
				lastResp.Body.Close()
			}
			lastResp = resp
			lastErr = fmt.Errorf("endpoint %s answered %d", base, resp.StatusCode)
			continue
		}
		if lastResp != nil {
			lastResp.Body.Close()
		}
		return resp, nil
	}

	if lastResp != nil {
		return lastResp, nil
	}
	return nil, fmt.Errorf("all endpoints failed: %w", lastErr)
}
