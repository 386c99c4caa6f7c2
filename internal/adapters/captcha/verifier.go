package captcha

import (
	"context"
	"errors"
)

// Verification errors.
var (
	// ErrMissingToken means a secret is configured but the submission carried
	// no challenge token. This path fails closed.
	ErrMissingToken = errors.New("captcha token missing")

	// ErrVerificationFailed means the provider rejected the token.
	ErrVerificationFailed = errors.New("captcha verification failed")
)

// Verifier re-checks a challenge token out-of-band with the bot-prevention
// provider. remoteIP may be empty when the submitter's address is unknown.
type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) error
}

// NoopVerifier accepts every submission. Used when no provider secret is
// configured: the challenge is disabled entirely and verification passes
// unconditionally.
type NoopVerifier struct{}

// Verify always passes.
func (NoopVerifier) Verify(context.Context, string, string) error { return nil }
