package orchestrators

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"recruit/internal/adapters/captcha"
	"recruit/internal/adapters/crypt"
	emailAdapter "recruit/internal/adapters/email"
	"recruit/internal/application/ratelimit"
	"recruit/internal/domain/application"
)

// SubmitApplicationInput carries input for the orchestrator.
type SubmitApplicationInput struct {
	Track        string
	Form         application.FormData
	CaptchaToken string
	IPAddress    string
}

// SubmitApplicationDeps holds dependencies for SubmitApplication.
type SubmitApplicationDeps struct {
	Store    ApplicationStore
	Limiter  *ratelimit.Limiter
	Verifier captcha.Verifier
	Sealer   crypt.Sealer

	// EmailSender is optional; when nil, no notification is attempted.
	EmailSender emailAdapter.Sender
	NotifyTo    []string
	FromAddress string
	ReplyTo     string

	GenerateToken func() string
	Now           func() time.Time
}

// ExecuteSubmitApplication coordinates a new application submission:
// rate limit, challenge verification, validation, persistence, then a
// best-effort notification email.
// PRE: Track is "baby" or "staff"
// POST: the stored record is never overwritten; notification failure does
// not fail the submission
func ExecuteSubmitApplication(ctx context.Context, input SubmitApplicationInput, deps SubmitApplicationDeps) (application.Application, error) {
	if !application.ValidTrack(input.Track) {
		return application.Application{}, application.ErrInvalidTrack
	}

	if ok, retryAfter := deps.Limiter.Allow(input.IPAddress); !ok {
		slog.Warn("submission_rate_limited", "track", input.Track, "retry_after", retryAfter)
		return application.Application{}, &ratelimit.RateLimitError{RetryAfter: retryAfter}
	}

	if err := deps.Verifier.Verify(ctx, input.CaptchaToken, input.IPAddress); err != nil {
		slog.Warn("submission_challenge_rejected", "track", input.Track, "error", err)
		return application.Application{}, err
	}

	if fields := application.Validate(input.Track, input.Form); len(fields) > 0 {
		return application.Application{}, &application.ValidationError{Fields: fields}
	}

	now := deps.Now()
	app := application.Application{
		ID:          application.NewID(input.Track, now, deps.GenerateToken()),
		Track:       input.Track,
		Form:        input.Form,
		SubmittedAt: now,
		IPAddress:   input.IPAddress,
	}

	payload, err := json.Marshal(app.Form)
	if err != nil {
		return application.Application{}, fmt.Errorf("encode form: %w", err)
	}
	sealed, err := deps.Sealer.Seal(payload)
	if err != nil {
		return application.Application{}, fmt.Errorf("seal form: %w", err)
	}
	app.Sealed = sealed

	if err := deps.Store.Save(ctx, app); err != nil {
		return application.Application{}, err
	}

	slog.Info("application_event", "event", "application_submitted", "application_id", app.ID, "track", app.Track)

	// Best-effort notification. Delivery problems are logged, never surfaced.
	if deps.EmailSender != nil && len(deps.NotifyTo) > 0 {
		req := emailAdapter.SendRequest{
			To:      deps.NotifyTo,
			From:    deps.FromAddress,
			Subject: submissionNoticeSubject(app),
			HTML:    submissionNoticeHTML(app),
			ReplyTo: deps.ReplyTo,
		}
		if _, err := deps.EmailSender.Send(ctx, req); err != nil {
			slog.Error("submission_notice_failed", "application_id", app.ID, "error", err)
		}
	}

	return app, nil
}
