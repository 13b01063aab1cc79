package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// DefaultOriginURL is the upstream playlist relayed when ORIGIN_URL is not set.
const DefaultOriginURL = "http://142.132.133.190:1935/live/Sportchek-ld/chunklist_w1481015368.m3u8"

// Config holds the runtime settings of the relay server.
type Config struct {
	Port                  string
	OriginURL             string
	FetchTimeout          time.Duration
	PublicURL             string
	TrustForwardedHeaders bool
	LogLevel              string
	LogFormat             string
}

// LoadEnv reads the .env file from the current working directory and sets
// environment variables. If .env does not exist, LoadEnv returns an error but
// callers can ignore it and use system env or defaults. Pass one or more paths
// to load from specific files (e.g. ".env"); with no paths, ".env" is used.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	return godotenv.Load(paths...)
}

// FromEnv builds a Config from environment variables, falling back to defaults.
func FromEnv() Config {
	return Config{
		Port:                  GetEnv("PORT", "8080"),
		OriginURL:             GetEnv("ORIGIN_URL", DefaultOriginURL),
		FetchTimeout:          GetEnvDuration("FETCH_TIMEOUT", 10*time.Second),
		PublicURL:             GetEnv("PUBLIC_URL", ""),
		TrustForwardedHeaders: GetEnvBool("TRUST_FORWARDED_HEADERS", false),
		LogLevel:              GetEnv("LOG_LEVEL", "info"),
		LogFormat:             GetEnv("LOG_FORMAT", "json"),
	}
}

// Parse layers command-line flags over the environment. Flags that are not
// given keep the value resolved from the environment.
func Parse(name string, args []string) (Config, error) {
	cfg := FromEnv()

	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.StringVar(&cfg.Port, "port", cfg.Port, "HTTP listen port")
	fs.StringVar(&cfg.OriginURL, "origin", cfg.OriginURL, "absolute URL of the upstream m3u8 playlist")
	fs.DurationVar(&cfg.FetchTimeout, "fetch-timeout", cfg.FetchTimeout, "origin connect and response-header timeout")
	fs.StringVar(&cfg.PublicURL, "public-url", cfg.PublicURL, "externally visible base URL of the relay (derived from the request when empty)")
	fs.BoolVar(&cfg.TrustForwardedHeaders, "trust-forwarded", cfg.TrustForwardedHeaders, "honor X-Forwarded-Proto and X-Forwarded-Host")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "json or text")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// GetEnv returns the value of the environment variable named by key, or fallback
// if the variable is unset or empty.
func GetEnv(key, fallback string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return fallback
}

// GetEnvBool returns the boolean value of the environment variable named by
// key, or fallback if the variable is unset, empty, or not accepted by
// strconv.ParseBool.
func GetEnvBool(key string, fallback bool) bool {
	if s := os.Getenv(key); s != "" {
		if b, err := strconv.ParseBool(s); err == nil {
			return b
		}
	}
	return fallback
}

// GetEnvDuration accepts Go duration strings ("10s", "1m") as well as a bare
// integer number of seconds.
func GetEnvDuration(key string, fallback time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Second
	}
	return fallback
}
