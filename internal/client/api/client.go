package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"recruit/internal/application/ratelimit"
	"recruit/internal/client/form"
	"recruit/internal/domain/application"
)

// ErrSubmissionInFlight means a submission is already running; the form must
// not fire a second one from a double click.
var ErrSubmissionInFlight = errors.New("a submission is already in flight")

// ErrChallengeRejected means the server refused the challenge token.
var ErrChallengeRejected = errors.New("challenge verification was rejected")

// SubmitResult is the server's acknowledgement of a stored application.
type SubmitResult struct {
	Success       bool      `json:"success"`
	ApplicationID string    `json:"applicationId"`
	Track         string    `json:"track"`
	SubmittedAt   time.Time `json:"submittedAt"`
}

// SubmissionClient submits applications, trying the primary endpoint first
// and falling back to the legacy one.
type SubmissionClient struct {
	hc     *http.Client
	bases  []string
	drafts form.DraftStore // optional; cleared on successful submission

	mu       sync.Mutex
	inFlight bool
}

// NewSubmissionClient creates a submission client.
// PRE: bases lists the primary endpoint first
func NewSubmissionClient(hc *http.Client, bases []string, drafts form.DraftStore) *SubmissionClient {
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &SubmissionClient{hc: hc, bases: bases, drafts: drafts}
}

type submitPayload struct {
	Track        string               `json:"track"`
	FormData     application.FormData `json:"formData"`
	CaptchaToken string               `json:"captchaToken"`
}

type errorResponse struct {
	Error      string            `json:"error"`
	Fields     map[string]string `json:"fields"`
	RetryAfter int               `json:"retryAfter"`
}

// Submit sends one application. Only a single submission may be in flight
// at a time.
// POST: on success the saved draft for the track is cleared
func (c *SubmissionClient) Submit(ctx context.Context, track string, f application.FormData, challengeToken string) (SubmitResult, error) {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return SubmitResult{}, ErrSubmissionInFlight
	}
	c.inFlight = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.inFlight = false
		c.mu.Unlock()
	}()

	// Pre-submit validation mirrors the server's authoritative check, so
	// field errors annotate the form without a round trip.
	if !application.ValidTrack(track) {
		return SubmitResult{}, application.ErrInvalidTrack
	}
	if fields := application.Validate(track, f); len(fields) > 0 {
		return SubmitResult{}, &application.ValidationError{Fields: fields}
	}

	body, err := json.Marshal(submitPayload{Track: track, FormData: f, CaptchaToken: challengeToken})
	if err != nil {
		return SubmitResult{}, fmt.Errorf("encode submission: %w", err)
	}

	resp, err := doWithFallback(ctx, c.hc, c.bases, func(base string) (*http.Request, error) {
		req, err := http.NewRequest("POST", base+"/applications", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return SubmitResult{}, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated:
		var result SubmitResult
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return SubmitResult{}, fmt.Errorf("decode response: %w", err)
		}
		if c.drafts != nil {
			c.drafts.Clear(form.DraftKey(track))
		}
		return result, nil
	case http.StatusBadRequest:
		var er errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&er); err == nil {
			if len(er.Fields) > 0 {
				return SubmitResult{}, &application.ValidationError{Fields: er.Fields}
			}
			if strings.Contains(er.Error, "captcha") {
				return SubmitResult{}, ErrChallengeRejected
			}
		}
		return SubmitResult{}, fmt.Errorf("submission rejected: %s", er.Error)
	case http.StatusTooManyRequests:
		var er errorResponse
		json.NewDecoder(resp.Body).Decode(&er)
		return SubmitResult{}, &ratelimit.RateLimitError{RetryAfter: er.RetryAfter}
	default:
		return SubmitResult{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
}
