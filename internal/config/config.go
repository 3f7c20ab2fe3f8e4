package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "OFFICECRM_"

// S3 holds S3-compatible storage settings for client file uploads.
// The bucket is only used when Bucket, AccessKey and SecretKey are all set.
type S3 struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	Prefix    string
}

// Enabled reports whether enough settings are present to build a client.
func (s S3) Enabled() bool {
	return s.Bucket != "" && s.AccessKey != "" && s.SecretKey != ""
}

type Telemetry struct {
	Enabled      bool
	ServiceName  string
	OTLPEndpoint string
	SampleRatio  float64
}

type Config struct {
	Port        string
	BaseURL     string
	LogLevel    string
	LogFormat   string
	DBDriver    string
	DBPath      string
	DBDSN       string
	UploadDir   string
	S3          S3
	CORSOrigins []string
	Telemetry   Telemetry

	// GridPreset selects the default day grid: "business" (06:00-19:00) or "full" (00:00-24:00).
	GridPreset string
	// ConsultantScope is "any" or "range"; see schedule.ConsultantScope.
	ConsultantScope string

	UploadRateLimit  int
	UploadRateWindow time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first if present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:      String("PORT", "8080"),
		BaseURL:   String("BASE_URL", ""),
		LogLevel:  String("LOG_LEVEL", "info"),
		LogFormat: String("LOG_FORMAT", "text"),
		DBDriver:  strings.ToLower(String("DB_DRIVER", "sqlite")),
		DBPath:    String("DB_PATH", "officecrm.db"),
		DBDSN:     String("DB_DSN", ""),
		UploadDir: String("UPLOAD_DIR", "uploads"),
		S3: S3{
			Endpoint:  String("S3_ENDPOINT", ""),
			Bucket:    String("S3_BUCKET", ""),
			Region:    String("S3_REGION", "us-east-1"),
			AccessKey: String("S3_ACCESS_KEY", ""),
			SecretKey: String("S3_SECRET_KEY", ""),
			Prefix:    String("S3_PREFIX", ""),
		},
		CORSOrigins: List("CORS_ORIGINS", nil),
		Telemetry: Telemetry{
			Enabled:      Bool("OTEL_ENABLED", false),
			ServiceName:  String("OTEL_SERVICE_NAME", "officecrm"),
			OTLPEndpoint: String("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			SampleRatio:  Float("OTEL_SAMPLING_RATIO", 1),
		},
		GridPreset:       strings.ToLower(String("GRID_PRESET", "business")),
		ConsultantScope:  strings.ToLower(String("CONSULTANT_SCOPE", "any")),
		UploadRateLimit:  Int("UPLOAD_RATE_LIMIT", 30),
		UploadRateWindow: Duration("UPLOAD_RATE_WINDOW", time.Minute),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	p, err := strconv.Atoi(c.Port)
	if err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("%sPORT must be a valid TCP port (got %q)", envPrefix, c.Port)
	}
	switch c.DBDriver {
	case "sqlite":
	case "postgres":
		if c.DBDSN == "" {
			return fmt.Errorf("%sDB_DSN is required when %sDB_DRIVER=postgres", envPrefix, envPrefix)
		}
	default:
		return fmt.Errorf("%sDB_DRIVER must be sqlite or postgres (got %q)", envPrefix, c.DBDriver)
	}
	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("%sOTEL_SAMPLING_RATIO must be within [0, 1]", envPrefix)
	}
	return nil
}

// String returns the prefixed environment variable or fallback when unset or empty.
func String(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(envPrefix + key))
	if v == "" {
		return fallback
	}
	return v
}

func Int(key string, fallback int) int {
	v := String(key, "")
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func Float(key string, fallback float64) float64 {
	v := String(key, "")
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func Bool(key string, fallback bool) bool {
	v := String(key, "")
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func Duration(key string, fallback time.Duration) time.Duration {
	v := String(key, "")
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

// List splits a comma-separated variable, dropping blank entries.
func List(key string, fallback []string) []string {
	v := String(key, "")
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
