package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"

	_ "modernc.org/sqlite"

	"recruit/internal/adapters/captcha"
	"recruit/internal/adapters/crypt"
	emailPkg "recruit/internal/adapters/email"
	web "recruit/internal/adapters/http"
	"recruit/internal/adapters/storage"
	"recruit/internal/adapters/storage/applicationstore"
	"recruit/internal/application/ratelimit"
	"recruit/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	configPath := flag.String("config", "recruit.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize database with WAL mode and busy timeout
	dsn := cfg.DBPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}
	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	log.Println("Database initialized successfully!")

	// Challenge verification: fail open only when no secret is configured.
	var verifier captcha.Verifier = captcha.NoopVerifier{}
	if cfg.TurnstileSecret != "" {
		verifier = captcha.NewTurnstileVerifier(cfg.TurnstileSecret)
		log.Println("Challenge verification configured (Turnstile)")
	} else {
		log.Println("WARNING: RECRUIT_TURNSTILE_SECRET is not set — challenge verification is DISABLED")
	}

	// At-rest protection for form payloads
	var sealer crypt.Sealer = crypt.NoopSealer{}
	if cfg.EncryptionKey != "" {
		sealer = crypt.NewAEADSealer(cfg.EncryptionKey)
		log.Println("Form payload sealing configured")
	} else {
		log.Println("WARNING: RECRUIT_ENCRYPTION_KEY is not set — applications are stored unencrypted")
	}

	// Configure email sender
	var sender emailPkg.Sender
	if cfg.Email.ResendKey != "" {
		sender = emailPkg.NewResendSender(cfg.Email.ResendKey, cfg.Email.From)
		log.Println("Email sender configured (Resend)")
	} else {
		sender = emailPkg.NewNoopSender()
		if cfg.Env == "production" {
			log.Println("WARNING: RECRUIT_RESEND_KEY is not set — email delivery is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop — set RECRUIT_RESEND_KEY for real delivery)")
		}
	}

	if cfg.AdminToken == "" {
		log.Println("WARNING: RECRUIT_ADMIN_TOKEN is not set — admin routes will refuse every request")
	}

	mux := web.NewMux(cfg.StaticDir, &web.Deps{
		ApplicationStore: applicationstore.NewSQLiteStore(db),
		Limiter:          ratelimit.NewLimiter(cfg.RateLimit.Max, cfg.RateLimit.Window(), nil),
		Verifier:         verifier,
		Sealer:           sealer,
		EmailSender:      sender,
		NotifyTo:         cfg.Email.NotifyTo,
		FromAddress:      cfg.Email.From,
		ReplyTo:          cfg.Email.ReplyTo,
		AdminToken:       cfg.AdminToken,
	})

	log.Printf("Recruit %s starting on %s (env=%s)", version, cfg.ListenAddr, cfg.Env)
	if err := http.ListenAndServe(cfg.ListenAddr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
