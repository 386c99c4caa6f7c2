package orchestrators

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"recruit/internal/adapters/crypt"
	"recruit/internal/domain/application"
)

func seedApplication(t *testing.T, store *mockStore, id, track string, form application.FormData) {
	t.Helper()
	payload, err := json.Marshal(form)
	if err != nil {
		t.Fatalf("marshal form: %v", err)
	}
	err = store.Save(context.Background(), application.Application{
		ID:          id,
		Track:       track,
		SubmittedAt: time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
		Sealed:      payload,
		IPAddress:   "203.0.113.7",
	})
	if err != nil {
		t.Fatalf("seed %s: %v", id, err)
	}
}

// TestListApplications_OpensSealedForms tests that listed records carry the
// decoded form and no internal fields.
func TestListApplications_OpensSealedForms(t *testing.T) {
	store := newMockStore()
	seedApplication(t, store, "baby-1-aaa", application.TrackBaby, babyForm())
	deps := ListApplicationsDeps{Store: store, Sealer: crypt.NoopSealer{}}

	apps, err := ExecuteListApplications(context.Background(), ListApplicationsInput{}, deps)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(apps) != 1 {
		t.Fatalf("len = %d, want 1", len(apps))
	}
	if apps[0].Form.Name != "홍길동" {
		t.Errorf("form name = %q", apps[0].Form.Name)
	}
	if apps[0].Sealed != nil || apps[0].IPAddress != "" {
		t.Error("internal fields must be stripped from listings")
	}
}

// TestListApplications_TrackFilter tests the optional per-track listing.
func TestListApplications_TrackFilter(t *testing.T) {
	store := newMockStore()
	seedApplication(t, store, "baby-1-aaa", application.TrackBaby, babyForm())
	seedApplication(t, store, "staff-2-bbb", application.TrackStaff, babyForm())
	deps := ListApplicationsDeps{Store: store, Sealer: crypt.NoopSealer{}}

	apps, err := ExecuteListApplications(context.Background(), ListApplicationsInput{Track: application.TrackStaff}, deps)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(apps) != 1 || apps[0].ID != "staff-2-bbb" {
		t.Fatalf("apps = %+v, want only the staff record", apps)
	}

	if _, err := ExecuteListApplications(context.Background(), ListApplicationsInput{Track: "alumni"}, deps); !errors.Is(err, application.ErrInvalidTrack) {
		t.Errorf("err = %v, want ErrInvalidTrack", err)
	}
}

// TestListApplications_SkipsUnreadableRecords tests that one corrupt record
// does not take down the listing.
func TestListApplications_SkipsUnreadableRecords(t *testing.T) {
	store := newMockStore()
	seedApplication(t, store, "baby-1-aaa", application.TrackBaby, babyForm())
	store.apps["baby-2-bad"] = application.Application{ID: "baby-2-bad", Sealed: []byte("{broken")}
	store.order = append(store.order, "baby-2-bad")
	deps := ListApplicationsDeps{Store: store, Sealer: crypt.NoopSealer{}}

	apps, err := ExecuteListApplications(context.Background(), ListApplicationsInput{}, deps)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(apps) != 1 || apps[0].ID != "baby-1-aaa" {
		t.Fatalf("apps = %+v, want the readable record only", apps)
	}
}

// TestGetApplication tests single-record retrieval and not-found mapping.
func TestGetApplication(t *testing.T) {
	store := newMockStore()
	seedApplication(t, store, "baby-1-aaa", application.TrackBaby, babyForm())
	deps := GetApplicationDeps{Store: store, Sealer: crypt.NoopSealer{}}

	app, err := ExecuteGetApplication(context.Background(), "baby-1-aaa", deps)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if app.Form.Email != "hong@dankook.ac.kr" {
		t.Errorf("form email = %q", app.Form.Email)
	}

	if _, err := ExecuteGetApplication(context.Background(), "baby-9-zzz", deps); !errors.Is(err, application.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
