// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package config

import (
	"fmt"
	"strings"

	altsrc "github.com/urfave/cli-altsrc/v3"
	"github.com/urfave/cli-altsrc/v3/toml"
	"github.com/urfave/cli/v3"
)

var configFile = altsrc.StringSourcer("config.toml")

type Config struct { //nolint:govet // fieldalignment not critical for config structs
	Server   ServerConfig
	Log      LogConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Auth     AuthConfig
	Session  SessionConfig
	Catalog  CatalogConfig
	OAuth    OAuthConfig
}

type ServerConfig struct { //nolint:govet // fieldalignment not critical for config structs
	Host        string
	Port        int
	BaseURL     string
	MaxBodySize int // in MB
}

type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // text, json
}

type DatabaseConfig struct {
	DSN string
}

type SMTPConfig struct { //nolint:govet // fieldalignment not critical for config structs
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	TLS      bool
}

// AuthConfig holds the settings for signup and account activation.
type AuthConfig struct { //nolint:govet // fieldalignment not critical for config structs
	SecretKey            string // key for signing activation tokens
	ActivationExpiryDays int    // days an activation link stays valid
}

type SessionConfig struct { //nolint:govet // fieldalignment not critical
	CookieName string // Session cookie name
	MaxAge     int    // Session max age in seconds
	HashKey    string // 32-byte hex string for HMAC signing
	BlockKey   string // 32-byte hex string for AES encryption (optional)
}

// CatalogConfig holds lending and review policy knobs.
type CatalogConfig struct {
	PageSize        int // items per list page
	RenewalWeeks    int // proposed renewal period in weeks
	MaxRenewalWeeks int // latest allowed renewal date, weeks ahead
	ReviewMinLength int // minimum characters for a book review
}

// OAuthConfig holds credentials for the social login providers.
type OAuthConfig struct {
	GitHubKey      string
	GitHubSecret   string
	LinkedInKey    string
	LinkedInSecret string
}

func NewFromCLI(cmd *cli.Command) *Config {
	cfg := &Config{
		Server: ServerConfig{
			Host:        cmd.String("host"),
			Port:        int(cmd.Int("port")),
			BaseURL:     cmd.String("base-url"),
			MaxBodySize: int(cmd.Int("max-body-size")),
		},
		Log: LogConfig{
			Level:  cmd.String("log-level"),
			Format: cmd.String("log-format"),
		},
		Database: DatabaseConfig{
			DSN: cmd.String("database-dsn"),
		},
		SMTP: SMTPConfig{
			Host:     cmd.String("smtp-host"),
			Port:     int(cmd.Int("smtp-port")),
			Username: cmd.String("smtp-username"),
			Password: cmd.String("smtp-password"),
			From:     cmd.String("smtp-from"),
			FromName: cmd.String("smtp-from-name"),
			TLS:      cmd.Bool("smtp-tls"),
		},
		Auth: AuthConfig{
			SecretKey:            cmd.String("secret-key"),
			ActivationExpiryDays: int(cmd.Int("activation-expiry-days")),
		},
		Session: SessionConfig{
			CookieName: cmd.String("session-cookie-name"),
			MaxAge:     int(cmd.Int("session-max-age")),
			HashKey:    cmd.String("session-hash-key"),
			BlockKey:   cmd.String("session-block-key"),
		},
		Catalog: CatalogConfig{
			PageSize:        int(cmd.Int("page-size")),
			RenewalWeeks:    int(cmd.Int("renewal-weeks")),
			MaxRenewalWeeks: int(cmd.Int("max-renewal-weeks")),
			ReviewMinLength: int(cmd.Int("review-min-length")),
		},
		OAuth: OAuthConfig{
			GitHubKey:      cmd.String("oauth-github-key"),
			GitHubSecret:   cmd.String("oauth-github-secret"),
			LinkedInKey:    cmd.String("oauth-linkedin-key"),
			LinkedInSecret: cmd.String("oauth-linkedin-secret"),
		},
	}

	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = buildBaseURL(cfg)
	}

	return cfg
}

func buildBaseURL(cfg *Config) string {
	host := cfg.Server.Host
	port := cfg.Server.Port

	// Hide the default HTTP port in the URL
	if port == 80 {
		return fmt.Sprintf("http://%s", host)
	}
	return fmt.Sprintf("http://%s:%d", host, port)
}

// IsSecureBaseURL reports whether the application is served over HTTPS,
// which controls the Secure flag on cookies.
func IsSecureBaseURL(baseURL string) bool {
	return strings.HasPrefix(baseURL, "https://")
}

// IsLocalhost checks if the host is a localhost address.
func IsLocalhost(host string) bool {
	switch host {
	case "", "localhost", "127.0.0.1", "::1":
		return true
	}
	// Check for *.localhost subdomains (e.g., app.localhost)
	return strings.HasSuffix(host, ".localhost")
}

func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "host",
			Value:   "localhost",
			Usage:   "Host to bind to",
			Sources: cli.NewValueSourceChain(cli.EnvVar("HOST"), toml.TOML("server.host", configFile)),
		},
		&cli.IntFlag{
			Name:    "port",
			Value:   8080,
			Usage:   "Port to listen on",
			Sources: cli.NewValueSourceChain(cli.EnvVar("PORT"), toml.TOML("server.port", configFile)),
		},
		&cli.StringFlag{
			Name:    "base-url",
			Usage:   "Base URL for the application",
			Sources: cli.NewValueSourceChain(cli.EnvVar("BASE_URL"), toml.TOML("server.base_url", configFile)),
		},
		&cli.IntFlag{
			Name:    "max-body-size",
			Value:   5,
			Usage:   "Maximum request body size in MB",
			Sources: cli.NewValueSourceChain(cli.EnvVar("MAX_BODY_SIZE"), toml.TOML("server.max_body_size", configFile)),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Value:   "info",
			Usage:   "Log level (debug, info, warn, error)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("LOG_LEVEL"), toml.TOML("log.level", configFile)),
		},
		&cli.StringFlag{
			Name:    "log-format",
			Value:   "text",
			Usage:   "Log format (text, json)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("LOG_FORMAT"), toml.TOML("log.format", configFile)),
		},
		&cli.StringFlag{
			Name:    "database-dsn",
			Value:   "./data/catalog.db",
			Usage:   "Database DSN",
			Sources: cli.NewValueSourceChain(cli.EnvVar("DATABASE_DSN"), toml.TOML("database.dsn", configFile)),
		},
		// SMTP flags
		&cli.StringFlag{
			Name:    "smtp-host",
			Usage:   "SMTP server host",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_HOST"), toml.TOML("smtp.host", configFile)),
		},
		&cli.IntFlag{
			Name:    "smtp-port",
			Value:   587,
			Usage:   "SMTP server port",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_PORT"), toml.TOML("smtp.port", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-username",
			Usage:   "SMTP username",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_USERNAME"), toml.TOML("smtp.username", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-password",
			Usage:   "SMTP password",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_PASSWORD"), toml.TOML("smtp.password", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-from",
			Usage:   "From address for outgoing mail",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_FROM"), toml.TOML("smtp.from", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-from-name",
			Value:   "Ib-Catalog",
			Usage:   "Display name for outgoing mail",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_FROM_NAME"), toml.TOML("smtp.from_name", configFile)),
		},
		&cli.BoolFlag{
			Name:    "smtp-tls",
			Value:   true,
			Usage:   "Use TLS for SMTP",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_TLS"), toml.TOML("smtp.tls", configFile)),
		},
		// Auth flags
		&cli.StringFlag{
			Name:    "secret-key",
			Usage:   "Secret key for signing activation tokens",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SECRET_KEY"), toml.TOML("auth.secret_key", configFile)),
		},
		&cli.IntFlag{
			Name:    "activation-expiry-days",
			Value:   3,
			Usage:   "Days an activation link stays valid",
			Sources: cli.NewValueSourceChain(cli.EnvVar("ACTIVATION_EXPIRY_DAYS"), toml.TOML("auth.activation_expiry_days", configFile)),
		},
		// Session flags
		&cli.StringFlag{
			Name:    "session-cookie-name",
			Value:   "_session",
			Usage:   "Session cookie name",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SESSION_COOKIE_NAME"), toml.TOML("session.cookie_name", configFile)),
		},
		&cli.IntFlag{
			Name:    "session-max-age",
			Value:   604800, // 7 days in seconds
			Usage:   "Session max age in seconds",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SESSION_MAX_AGE"), toml.TOML("session.max_age", configFile)),
		},
		&cli.StringFlag{
			Name:    "session-hash-key",
			Usage:   "Session hash key (32-byte hex, auto-generated if empty in dev)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SESSION_HASH_KEY"), toml.TOML("session.hash_key", configFile)),
		},
		&cli.StringFlag{
			Name:    "session-block-key",
			Usage:   "Session block key for encryption (32-byte hex, optional)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SESSION_BLOCK_KEY"), toml.TOML("session.block_key", configFile)),
		},
		// Catalog flags
		&cli.IntFlag{
			Name:    "page-size",
			Value:   10,
			Usage:   "Items per list page",
			Sources: cli.NewValueSourceChain(cli.EnvVar("PAGE_SIZE"), toml.TOML("catalog.page_size", configFile)),
		},
		&cli.IntFlag{
			Name:    "renewal-weeks",
			Value:   3,
			Usage:   "Proposed loan renewal period in weeks",
			Sources: cli.NewValueSourceChain(cli.EnvVar("RENEWAL_WEEKS"), toml.TOML("catalog.renewal_weeks", configFile)),
		},
		&cli.IntFlag{
			Name:    "max-renewal-weeks",
			Value:   4,
			Usage:   "Latest allowed renewal date, weeks ahead",
			Sources: cli.NewValueSourceChain(cli.EnvVar("MAX_RENEWAL_WEEKS"), toml.TOML("catalog.max_renewal_weeks", configFile)),
		},
		&cli.IntFlag{
			Name:    "review-min-length",
			Value:   300,
			Usage:   "Minimum characters for a book review",
			Sources: cli.NewValueSourceChain(cli.EnvVar("REVIEW_MIN_LENGTH"), toml.TOML("catalog.review_min_length", configFile)),
		},
		// OAuth flags
		&cli.StringFlag{
			Name:    "oauth-github-key",
			Usage:   "GitHub OAuth client id",
			Sources: cli.NewValueSourceChain(cli.EnvVar("OAUTH_GITHUB_KEY"), toml.TOML("oauth.github_key", configFile)),
		},
		&cli.StringFlag{
			Name:    "oauth-github-secret",
			Usage:   "GitHub OAuth client secret",
			Sources: cli.NewValueSourceChain(cli.EnvVar("OAUTH_GITHUB_SECRET"), toml.TOML("oauth.github_secret", configFile)),
		},
		&cli.StringFlag{
			Name:    "oauth-linkedin-key",
			Usage:   "LinkedIn OAuth client id",
			Sources: cli.NewValueSourceChain(cli.EnvVar("OAUTH_LINKEDIN_KEY"), toml.TOML("oauth.linkedin_key", configFile)),
		},
		&cli.StringFlag{
			Name:    "oauth-linkedin-secret",
			Usage:   "LinkedIn OAuth client secret",
			Sources: cli.NewValueSourceChain(cli.EnvVar("OAUTH_LINKEDIN_SECRET"), toml.TOML("oauth.linkedin_secret", configFile)),
		},
	}
}
