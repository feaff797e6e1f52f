package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer         string // Required: issuer claim for session credentials
	BootstrapToken string // Optional: token required to perform bootstrap

	NumKeys      int    // Optional: number of signing keys to generate (default: 3, min: 1, max: 10)
	DatabaseFile string // Optional: path to SQLite database file (default: ./accounts.db)
	PepperFile   string // Optional: path to file containing pepper for password hashing (default: ./pepper)

	SessionTTL           time.Duration // Session credential lifetime (default: 1h)
	VerificationTTL      time.Duration // Email verification link lifetime (default: 24h)
	OTPTTL               time.Duration // One-time login code lifetime (default: 5m)
	OTPMaxAttempts       int           // Wrong codes allowed per challenge (default: 3)
	LockoutThreshold     int           // Consecutive failed logins before lockout (default: 5)
	ResendInterval       time.Duration // Minimum wait between resend requests (default: 1m)
	RequireOTPEveryLogin bool          // Email a code on every login, not just the first

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:         os.Getenv("ACCOUNTS_ISSUER"),
		BootstrapToken: os.Getenv("BOOTSTRAP_TOKEN"),

		NumKeys:      getEnvIntOrDefault("ACCOUNTS_NUM_KEYS", 0),
		DatabaseFile: getEnvOrDefault("ACCOUNTS_DATABASE_FILE", "accounts.db"),
		PepperFile:   getEnvOrDefault("ACCOUNTS_PEPPER_FILE", "pepper"),

		SessionTTL:           getEnvDurationOrDefault("ACCOUNTS_SESSION_TTL", time.Hour),
		VerificationTTL:      getEnvDurationOrDefault("ACCOUNTS_VERIFICATION_TTL", 24*time.Hour),
		OTPTTL:               getEnvDurationOrDefault("ACCOUNTS_OTP_TTL", 5*time.Minute),
		OTPMaxAttempts:       getEnvIntOrDefault("ACCOUNTS_OTP_MAX_ATTEMPTS", 3),
		LockoutThreshold:     getEnvIntOrDefault("ACCOUNTS_LOCKOUT_THRESHOLD", 5),
		ResendInterval:       getEnvDurationOrDefault("ACCOUNTS_RESEND_INTERVAL", time.Minute),
		RequireOTPEveryLogin: getEnvBoolOrDefault("ACCOUNTS_REQUIRE_OTP_EVERY_LOGIN", false),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	if cfg.Issuer == "" {
		cfg.Issuer = "assignhub-accounts"
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
