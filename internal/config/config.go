package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the process-wide configuration. It is loaded once at startup
// and treated as immutable afterwards; rotating the signing secret requires
// a restart.
type Config struct {
	Env     string
	AppName string
	Port    string

	// Token signing and lifetimes.
	JWTSecret  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// Rotate the refresh token on every /auth/refresh call and revoke the
	// prior one. Off by default for client compatibility.
	RefreshRotate bool

	// Google identity provider.
	GoogleClientID     string
	GoogleClientSecret string
	TrustedIssuers     []string

	// Backing stores. Empty values select the in-process implementations,
	// which are only suitable for a single instance.
	DatabaseURL string
	RedisAddr   string
	RedisDB     int

	ShutdownTimeout time.Duration
}

// defaultTrustedIssuers are the only issuers accepted on Google ID tokens.
// Google emits both forms depending on the client library.
var defaultTrustedIssuers = []string{
	"https://accounts.google.com",
	"accounts.google.com",
}

// Load reads configuration from the environment, honouring a local .env file
// when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	clientID := strings.TrimSpace(os.Getenv("GOOGLE_CLIENT_ID"))
	if clientID == "" {
		return Config{}, fmt.Errorf("GOOGLE_CLIENT_ID is required")
	}

	cfg := Config{
		Env:                GetEnv("ENV", "DEV"),
		AppName:            GetEnv("APP_NAME", "Chakhaeng Auth"),
		Port:               port(GetEnv("PORT", "8080")),
		JWTSecret:          secret,
		AccessTTL:          time.Duration(getInt("ACCESS_TOKEN_MINUTES", 15)) * time.Minute,
		RefreshTTL:         time.Duration(getInt("REFRESH_TOKEN_DAYS", 30)) * 24 * time.Hour,
		RefreshRotate:      getBool("REFRESH_ROTATE", false),
		GoogleClientID:     clientID,
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		TrustedIssuers:     getList("TRUSTED_ISSUERS", defaultTrustedIssuers),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisDB:            getInt("REDIS_DB", 0),
		ShutdownTimeout:    5 * time.Second,
	}

	return cfg, nil
}

func port(p string) string {
	if !strings.HasPrefix(p, ":") {
		return ":" + p
	}
	return p
}

// GetEnv returns the value of envVar, or defaultValue when unset or empty.
func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

func getInt(envVar string, defaultValue int) int {
	if v, ok := os.LookupEnv(envVar); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err == nil {
			return n
		}
	}
	return defaultValue
}

func getBool(envVar string, defaultValue bool) bool {
	if v, ok := os.LookupEnv(envVar); ok {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "t", "yes", "y", "on":
			return true
		case "0", "false", "f", "no", "n", "off":
			return false
		}
	}
	return defaultValue
}

func getList(envVar string, defaultValue []string) []string {
	v, ok := os.LookupEnv(envVar)
	if !ok {
		return defaultValue
	}
	var cleaned []string
	for _, p := range strings.Split(v, ",") {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	if len(cleaned) == 0 {
		return defaultValue
	}
	return cleaned
}
