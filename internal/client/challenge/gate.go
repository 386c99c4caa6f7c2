package challenge

import (
	"errors"
	"sync"
)

// ErrNoToken means the challenge has not been solved yet, or the previous
// token was already consumed.
var ErrNoToken = errors.New("no challenge token available")

// Gate holds the one-shot token produced by the hosted challenge widget.
// A token is consumed by exactly one submission attempt; the widget's error
// and expiry callbacks clear whatever is held.
type Gate struct {
	mu      sync.Mutex
	siteKey string
	mounted bool
	token   string
}

// NewGate creates a gate. An empty site key disables the challenge: the gate
// never mounts and Consume yields empty tokens without error, leaving the
// accept/reject decision to the server.
func NewGate(siteKey string) *Gate {
	return &Gate{siteKey: siteKey}
}

// Enabled reports whether a site key is configured.
func (g *Gate) Enabled() bool { return g.siteKey != "" }

// Mount marks the widget as rendered. Mounting twice is a no-op, so the
// form can call it on every render.
// POST: returns true only on the first effective mount
func (g *Gate) Mount() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.Enabled() || g.mounted {
		return false
	}
	g.mounted = true
	return true
}

// SetToken stores a fresh token from the widget's success callback,
// replacing any unconsumed one.
func (g *Gate) SetToken(token string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.token = token
}

// Clear drops the held token. Wired to the widget's error and expiry
// callbacks.
func (g *Gate) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.token = ""
}

// Consume returns the held token and clears it so a retry needs a new one.
// POST: when enabled, a second Consume without a fresh SetToken fails with
// ErrNoToken
func (g *Gate) Consume() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.Enabled() {
		return "", nil
	}
	if g.token == "" {
		return "", ErrNoToken
	}
	token := g.token
	g.token = ""
	return token, nil
}
