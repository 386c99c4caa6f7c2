package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config carries every runtime setting for the recruitment server. Values
// come from an optional YAML file, with RECRUIT_* environment variables
// taking precedence. `${VAR}` references inside the file are expanded.
type Config struct {
	ListenAddr string `yaml:"listen_addr"`
	StaticDir  string `yaml:"static_dir"`
	DBPath     string `yaml:"db_path"`
	Env        string `yaml:"env"`

	AdminToken      string `yaml:"admin_token"`
	TurnstileSecret string `yaml:"turnstile_secret"`
	EncryptionKey   string `yaml:"encryption_key"`

	Email EmailConfig `yaml:"email"`

	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// EmailConfig configures the submission notification mail.
type EmailConfig struct {
	ResendKey string   `yaml:"resend_key"`
	From      string   `yaml:"from"`
	ReplyTo   string   `yaml:"reply_to"`
	NotifyTo  []string `yaml:"notify_to"`
}

// RateLimitConfig bounds submissions per address.
type RateLimitConfig struct {
	Max           int `yaml:"max"`
	WindowSeconds int `yaml:"window_seconds"`
}

// Window returns the rate limit window as a duration.
func (r RateLimitConfig) Window() time.Duration {
	return time.Duration(r.WindowSeconds) * time.Second
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ListenAddr: ":8080",
		StaticDir:  "web/static",
		DBPath:     "recruit.db",
		Env:        "development",
		Email: EmailConfig{
			From: "Likelion Dankook <onboarding@resend.dev>",
		},
		RateLimit: RateLimitConfig{Max: 20, WindowSeconds: 60},
	}
}

// Load reads configuration from path, merging file values over defaults and
// environment values over both. An empty path or a missing file is not an
// error; the defaults plus environment apply.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		} else {
			expanded := os.Expand(string(raw), os.Getenv)
			if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	applyEnv(&cfg)

	if cfg.RateLimit.Max <= 0 {
		cfg.RateLimit.Max = 20
	}
	if cfg.RateLimit.WindowSeconds <= 0 {
		cfg.RateLimit.WindowSeconds = 60
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setString(&cfg.ListenAddr, "RECRUIT_ADDR")
	setString(&cfg.StaticDir, "RECRUIT_STATIC_DIR")
	setString(&cfg.DBPath, "RECRUIT_DB_PATH")
	setString(&cfg.Env, "RECRUIT_ENV")
	setString(&cfg.AdminToken, "RECRUIT_ADMIN_TOKEN")
	setString(&cfg.TurnstileSecret, "RECRUIT_TURNSTILE_SECRET")
	setString(&cfg.EncryptionKey, "RECRUIT_ENCRYPTION_KEY")
	setString(&cfg.Email.ResendKey, "RECRUIT_RESEND_KEY")
	setString(&cfg.Email.From, "RECRUIT_RESEND_FROM")
	setString(&cfg.Email.ReplyTo, "RECRUIT_REPLY_TO")
	if v := os.Getenv("RECRUIT_ADMIN_EMAIL"); v != "" {
		cfg.Email.NotifyTo = splitAddresses(v)
	}
}

func splitAddresses(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
