package captcha

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

// TestTurnstile_MissingToken tests that a blank token fails closed without
// calling the provider.
func TestTurnstile_MissingToken(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	v := NewTurnstileVerifierURL("secret", srv.URL)
	if err := v.Verify(context.Background(), "  ", "203.0.113.7"); err != ErrMissingToken {
		t.Errorf("err = %v, want ErrMissingToken", err)
	}
	if called {
		t.Error("provider must not be called for a missing token")
	}
}

// TestTurnstile_Success tests the provider-accepted path and form encoding.
func TestTurnstile_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.PostForm.Get("secret") != "secret" {
			t.Errorf("secret = %q", r.PostForm.Get("secret"))
		}
		if r.PostForm.Get("response") != "tok-1" {
			t.Errorf("response = %q", r.PostForm.Get("response"))
		}
		if r.PostForm.Get("remoteip") != "203.0.113.7" {
			t.Errorf("remoteip = %q", r.PostForm.Get("remoteip"))
		}
		fmt.Fprint(w, `{"success":true}`)
	}))
	defer srv.Close()

	v := NewTurnstileVerifierURL("secret", srv.URL)
	if err := v.Verify(context.Background(), "tok-1", "203.0.113.7"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// TestTurnstile_Rejected tests that provider rejection surfaces the error codes.
func TestTurnstile_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success":false,"error-codes":["invalid-input-response"]}`)
	}))
	defer srv.Close()

	v := NewTurnstileVerifierURL("secret", srv.URL)
	err := v.Verify(context.Background(), "tok-bad", "")
	if !errors.Is(err, ErrVerificationFailed) {
		t.Fatalf("err = %v, want ErrVerificationFailed", err)
	}
}

// TestNoopVerifier tests the challenge-disabled path.
func TestNoopVerifier(t *testing.T) {
	if err := (NoopVerifier{}).Verify(context.Background(), "", ""); err != nil {
		t.Errorf("noop verifier must always pass, got %v", err)
	}
}
