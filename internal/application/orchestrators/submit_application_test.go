package orchestrators

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"recruit/internal/adapters/captcha"
	"recruit/internal/adapters/crypt"
	emailAdapter "recruit/internal/adapters/email"
	"recruit/internal/application/ratelimit"
	"recruit/internal/domain/application"
)

// mockStore is an in-memory ApplicationStore for orchestrator tests.
type mockStore struct {
	apps      map[string]application.Application
	order     []string
	saveErr   error
	deleteErr map[string]error
}

func newMockStore() *mockStore {
	return &mockStore{apps: map[string]application.Application{}}
}

func (m *mockStore) Save(ctx context.Context, app application.Application) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	if _, exists := m.apps[app.ID]; exists {
		return application.ErrReadOnly
	}
	m.apps[app.ID] = app
	m.order = append(m.order, app.ID)
	return nil
}

func (m *mockStore) GetByID(ctx context.Context, id string) (application.Application, error) {
	app, ok := m.apps[id]
	if !ok {
		return application.Application{}, application.ErrNotFound
	}
	return app, nil
}

func (m *mockStore) List(ctx context.Context) ([]application.Application, error) {
	var out []application.Application
	for i := len(m.order) - 1; i >= 0; i-- {
		if app, ok := m.apps[m.order[i]]; ok {
			out = append(out, app)
		}
	}
	return out, nil
}

func (m *mockStore) ListByIDPrefix(ctx context.Context, prefix string) ([]application.Application, error) {
	all, _ := m.List(ctx)
	var out []application.Application
	for _, app := range all {
		if strings.HasPrefix(app.ID, prefix) {
			out = append(out, app)
		}
	}
	return out, nil
}

func (m *mockStore) Delete(ctx context.Context, id string) error {
	if err := m.deleteErr[id]; err != nil {
		return err
	}
	delete(m.apps, id)
	return nil
}

// mockSender records send requests.
type mockSender struct {
	requests []emailAdapter.SendRequest
	err      error
}

func (m *mockSender) Send(ctx context.Context, req emailAdapter.SendRequest) (emailAdapter.SendResult, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return emailAdapter.SendResult{}, m.err
	}
	return emailAdapter.SendResult{MessageID: "msg-1"}, nil
}

// rejectingVerifier fails every challenge.
type rejectingVerifier struct{}

func (rejectingVerifier) Verify(ctx context.Context, token, remoteIP string) error {
	return captcha.ErrVerificationFailed
}

func babyForm() application.FormData {
	return application.FormData{
		Name:           "홍길동",
		StudentID:      "32000000",
		Email:          "hong@dankook.ac.kr",
		Phone:          "010-1234-5678",
		Major:          "소프트웨어학과",
		CurrentYear:    "2",
		Schedule1:      "가능",
		Schedule2:      "가능",
		Schedule3:      "가능",
		InterviewDates: []string{"2월 22일(토)"},
		Activities:     []string{""},
		InterestField:  application.InterestFrontend,
		Essay1:         "지원 동기",
		Essay2:         "경험",
		Essay3:         "포부",
	}
}

func submitDeps(store *mockStore, sender *mockSender) SubmitApplicationDeps {
	fixed := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	return SubmitApplicationDeps{
		Store:         store,
		Limiter:       ratelimit.NewLimiter(20, time.Minute, func() time.Time { return fixed }),
		Verifier:      captcha.NoopVerifier{},
		Sealer:        crypt.NoopSealer{},
		EmailSender:   sender,
		NotifyTo:      []string{"admin@likelion.org"},
		FromAddress:   "Likelion Dankook <onboarding@resend.dev>",
		GenerateToken: func() string { return "a1b2c3" },
		Now:           func() time.Time { return fixed },
	}
}

// TestSubmitApplication_Success tests the happy path end to end.
func TestSubmitApplication_Success(t *testing.T) {
	store := newMockStore()
	sender := &mockSender{}
	deps := submitDeps(store, sender)

	app, err := ExecuteSubmitApplication(context.Background(), SubmitApplicationInput{
		Track:        application.TrackBaby,
		Form:         babyForm(),
		CaptchaToken: "tok",
		IPAddress:    "203.0.113.7",
	}, deps)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if app.ID != "baby-1769940000000-a1b2c3" {
		t.Errorf("id = %q", app.ID)
	}
	stored, ok := store.apps[app.ID]
	if !ok {
		t.Fatal("application not persisted")
	}
	if stored.IPAddress != "203.0.113.7" {
		t.Errorf("stored ip = %q", stored.IPAddress)
	}
	if len(stored.Sealed) == 0 {
		t.Error("stored record has no sealed payload")
	}
	if len(sender.requests) != 1 {
		t.Fatalf("sent %d notices, want 1", len(sender.requests))
	}
	if !strings.Contains(sender.requests[0].HTML, "홍길동") {
		t.Error("notice body missing applicant name")
	}
}

// TestSubmitApplication_InvalidTrack tests track rejection before any
// side effect.
func TestSubmitApplication_InvalidTrack(t *testing.T) {
	store := newMockStore()
	deps := submitDeps(store, &mockSender{})

	_, err := ExecuteSubmitApplication(context.Background(), SubmitApplicationInput{
		Track: "alumni",
		Form:  babyForm(),
	}, deps)
	if !errors.Is(err, application.ErrInvalidTrack) {
		t.Fatalf("err = %v, want ErrInvalidTrack", err)
	}
	if len(store.apps) != 0 {
		t.Error("record persisted for an invalid track")
	}
}

// TestSubmitApplication_RateLimited tests the limiter gate ahead of
// challenge and validation.
func TestSubmitApplication_RateLimited(t *testing.T) {
	store := newMockStore()
	deps := submitDeps(store, &mockSender{})
	deps.Limiter = ratelimit.NewLimiter(1, time.Minute, deps.Now)

	input := SubmitApplicationInput{Track: application.TrackBaby, Form: babyForm(), IPAddress: "ip"}
	if _, err := ExecuteSubmitApplication(context.Background(), input, deps); err != nil {
		t.Fatalf("first submit: %v", err)
	}

	_, err := ExecuteSubmitApplication(context.Background(), input, deps)
	var rle *ratelimit.RateLimitError
	if !errors.As(err, &rle) {
		t.Fatalf("err = %v, want RateLimitError", err)
	}
	if rle.RetryAfter <= 0 || rle.RetryAfter > 60 {
		t.Errorf("retryAfter = %d", rle.RetryAfter)
	}
}

// TestSubmitApplication_ChallengeRejected tests that a failed challenge
// blocks persistence.
func TestSubmitApplication_ChallengeRejected(t *testing.T) {
	store := newMockStore()
	deps := submitDeps(store, &mockSender{})
	deps.Verifier = rejectingVerifier{}

	_, err := ExecuteSubmitApplication(context.Background(), SubmitApplicationInput{
		Track: application.TrackBaby,
		Form:  babyForm(),
	}, deps)
	if !errors.Is(err, captcha.ErrVerificationFailed) {
		t.Fatalf("err = %v, want ErrVerificationFailed", err)
	}
	if len(store.apps) != 0 {
		t.Error("record persisted despite rejected challenge")
	}
}

// TestSubmitApplication_ValidationFailure tests that field errors surface
// as a ValidationError.
func TestSubmitApplication_ValidationFailure(t *testing.T) {
	deps := submitDeps(newMockStore(), &mockSender{})
	form := babyForm()
	form.Email = "not-an-email"

	_, err := ExecuteSubmitApplication(context.Background(), SubmitApplicationInput{
		Track: application.TrackBaby,
		Form:  form,
	}, deps)
	var ve *application.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if _, ok := ve.Fields["email"]; !ok {
		t.Errorf("fields = %v, want email entry", ve.Fields)
	}
}

// TestSubmitApplication_NotifyFailureIsSwallowed tests that the submission
// succeeds even when the notice cannot be delivered.
func TestSubmitApplication_NotifyFailureIsSwallowed(t *testing.T) {
	store := newMockStore()
	sender := &mockSender{err: errors.New("provider down")}
	deps := submitDeps(store, sender)

	app, err := ExecuteSubmitApplication(context.Background(), SubmitApplicationInput{
		Track: application.TrackBaby,
		Form:  babyForm(),
	}, deps)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, ok := store.apps[app.ID]; !ok {
		t.Error("application not persisted")
	}
}

// TestSubmitApplication_NoSenderConfigured tests the silent no-notify path.
func TestSubmitApplication_NoSenderConfigured(t *testing.T) {
	deps := submitDeps(newMockStore(), &mockSender{})
	deps.EmailSender = nil

	if _, err := ExecuteSubmitApplication(context.Background(), SubmitApplicationInput{
		Track: application.TrackBaby,
		Form:  babyForm(),
	}, deps); err != nil {
		t.Fatalf("submit: %v", err)
	}
}
