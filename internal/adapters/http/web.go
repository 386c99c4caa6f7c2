package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"time"

	"recruit/internal/adapters/captcha"
	"recruit/internal/adapters/crypt"
	"recruit/internal/adapters/email"
	"recruit/internal/adapters/http/middleware"
	"recruit/internal/adapters/storage/applicationstore"
	"recruit/internal/application/ratelimit"
)

// apiBases are the path prefixes every route is served under. Clients submit
// against the first and fall back to the second, so both must answer.
var apiBases = []string{"/api", "/server"}

// Deps holds all dependencies for the HTTP layer.
type Deps struct {
	ApplicationStore applicationstore.Store
	Limiter          *ratelimit.Limiter
	Verifier         captcha.Verifier
	Sealer           crypt.Sealer

	EmailSender email.Sender
	NotifyTo    []string
	FromAddress string
	ReplyTo     string

	// AdminToken gates the admin routes. Empty means admin access is not
	// configured and every admin request fails with a server error.
	AdminToken string

	GenerateToken func() string
	Now           func() time.Time
}

// loadCSRFKey reads the CSRF secret from RECRUIT_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("RECRUIT_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("RECRUIT_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("RECRUIT_ENV") == "production" {
		log.Fatal("RECRUIT_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (sessions won't survive restart). Set RECRUIT_CSRF_KEY for production.")
	return key
}

// Global deps instance (set by NewMux)
var deps *Deps

// NewMux wires HTTP handlers for the app.
func NewMux(staticDir string, d *Deps) http.Handler {
	deps = d
	if deps.GenerateToken == nil {
		deps.GenerateToken = generateToken
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	registerRoutes(mux)

	// CSRF key: 32-byte hex-encoded secret from env var
	csrfKey := loadCSRFKey()

	// Apply middleware: CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey, apiBases...),
	)
}

// registerRoutes mounts the JSON API under every base prefix.
func registerRoutes(mux *http.ServeMux) {
	for _, base := range apiBases {
		mux.HandleFunc(base+"/applications", handleApplications)
		mux.HandleFunc(base+"/applications/export", handleExportApplications)
		mux.Handle(base+"/applications/", http.StripPrefix(base+"/applications/", http.HandlerFunc(handleApplicationByID)))
		mux.HandleFunc(base+"/health", handleHealth)
		mux.HandleFunc(base+"/", handleAPINotFound)
	}
	mux.HandleFunc("/health", handleHealth)
}
