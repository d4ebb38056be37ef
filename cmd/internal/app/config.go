package app

import (
	"strings"
	"time"
)

// Config contains all runtime configuration loaded from environment variables.
type Config struct {
	// Env is "dev" or "prod". Prod defaults to JSON logs and a Secure
	// access cookie; dev defaults to pretty logs.
	Env string

	HTTPAddr string

	LogLevel  string
	LogFormat string

	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	MaxHeaderBytes    int

	DatabaseURL string
	DBMaxConns  int32
	DBMinConns  int32

	// If true:
	// - /readyz returns 503 unless DB is configured and reachable.
	ReadinessRequireDB bool

	// Browser clients. An empty allowlist disables the CORS layer entirely.
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool
	CORSMaxAgeSeconds    int
}

// LoadConfig loads Config from environment variables with defaults.
func LoadConfig() Config {
	env := strings.ToLower(EnvString("MR_ENV", "dev"))

	logFormat := "json"
	if env == "dev" {
		logFormat = "pretty"
	}

	return Config{
		Env:      env,
		HTTPAddr: EnvString("MR_HTTP_ADDR", ":8000"),

		LogLevel:  EnvString("MR_LOG_LEVEL", "info"),
		LogFormat: strings.ToLower(EnvString("MR_LOG_FORMAT", logFormat)),

		ReadHeaderTimeout: EnvDuration("MR_HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
		ReadTimeout:       EnvDuration("MR_HTTP_READ_TIMEOUT", 10*time.Second),
		WriteTimeout:      EnvDuration("MR_HTTP_WRITE_TIMEOUT", 30*time.Second),
		IdleTimeout:       EnvDuration("MR_HTTP_IDLE_TIMEOUT", 120*time.Second),
		ShutdownTimeout:   EnvDuration("MR_HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),

		MaxHeaderBytes: EnvInt("MR_HTTP_MAX_HEADER_BYTES", 1<<20),

		DatabaseURL: EnvString("MR_DB_URL", ""),
		DBMaxConns:  EnvInt32("MR_DB_MAX_CONNS", 10),
		DBMinConns:  EnvInt32("MR_DB_MIN_CONNS", 0),

		ReadinessRequireDB: EnvBool("MR_READINESS_REQUIRE_DB", false),

		CORSAllowedOrigins:   EnvStringList("MR_CORS_ALLOWED_ORIGINS", nil),
		CORSAllowCredentials: EnvBool("MR_CORS_ALLOW_CREDENTIALS", false),
		CORSMaxAgeSeconds:    EnvInt("MR_CORS_MAX_AGE_SECONDS", 600),
	}
}
