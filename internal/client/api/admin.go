package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"recruit/internal/domain/application"
)

// ErrUnauthorized means the admin token was missing or wrong.
var ErrUnauthorized = errors.New("admin token rejected")

// ClearResult reports a bulk delete outcome.
type ClearResult struct {
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// AdminClient drives the token-gated admin routes with the same endpoint
// fallback as submissions.
type AdminClient struct {
	hc    *http.Client
	bases []string
	token string
}

// NewAdminClient creates an admin client.
func NewAdminClient(hc *http.Client, bases []string, token string) *AdminClient {
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	return &AdminClient{hc: hc, bases: bases, token: token}
}

func (c *AdminClient) do(ctx context.Context, method, path string) (*http.Response, error) {
	resp, err := doWithFallback(ctx, c.hc, c.bases, func(base string) (*http.Request, error) {
		req, err := http.NewRequest(method, base+path, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("x-admin-token", c.token)
		return req, nil
	})
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		return nil, ErrUnauthorized
	}
	return resp, nil
}

// List fetches stored applications, optionally filtered to one track.
func (c *AdminClient) List(ctx context.Context, track string) ([]application.Application, error) {
	path := "/applications"
	if track != "" {
		path += "?track=" + url.QueryEscape(track)
	}
	resp, err := c.do(ctx, "GET", path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list failed with status %d", resp.StatusCode)
	}

	var body struct {
		Applications []application.Application `json:"applications"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}
	return body.Applications, nil
}

// Get fetches one application by id.
func (c *AdminClient) Get(ctx context.Context, id string) (application.Application, error) {
	resp, err := c.do(ctx, "GET", "/applications/"+url.PathEscape(id))
	if err != nil {
		return application.Application{}, err
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return application.Application{}, application.ErrNotFound
	default:
		return application.Application{}, fmt.Errorf("get failed with status %d", resp.StatusCode)
	}

	var app application.Application
	if err := json.NewDecoder(resp.Body).Decode(&app); err != nil {
		return application.Application{}, fmt.Errorf("decode application: %w", err)
	}
	return app, nil
}

// Delete removes one application. It reports success only when the server
// confirmed the removal.
func (c *AdminClient) Delete(ctx context.Context, id string) error {
	resp, err := c.do(ctx, "DELETE", "/applications/"+url.PathEscape(id))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return application.ErrNotFound
	default:
		return fmt.Errorf("delete failed with status %d", resp.StatusCode)
	}
}

// DeleteAll clears every stored application.
func (c *AdminClient) DeleteAll(ctx context.Context) (ClearResult, error) {
	resp, err := c.do(ctx, "DELETE", "/applications")
	if err != nil {
		return ClearResult{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ClearResult{}, fmt.Errorf("delete all failed with status %d", resp.StatusCode)
	}

	var result ClearResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return ClearResult{}, fmt.Errorf("decode result: %w", err)
	}
	return result, nil
}

// ExportCSV streams the CSV export into w.
func (c *AdminClient) ExportCSV(ctx context.Context, w io.Writer, track string) error {
	path := "/applications/export"
	if track != "" {
		path += "?track=" + url.QueryEscape(track)
	}
	resp, err := c.do(ctx, "GET", path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("export failed with status %d", resp.StatusCode)
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("stream export: %w", err)
	}
	return nil
}
