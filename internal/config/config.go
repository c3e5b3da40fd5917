package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort      string
	PublicBaseURL string

	SupabaseURL string
	SupabaseKey string
	Bucket      string

	StorageAccessKey string
	StorageSecretKey string
	StorageRegion    string

	UploadDir string

	AdminUser string
	AdminPass string

	DBURL string // direct Postgres DSN, used by the migration script only

	TurnstileEnabled bool
}

func Load() *Config {
	_ = godotenv.Load() // .env is optional

	return &Config{
		HTTPPort:         getenv("HTTP_PORT", ":8080"),
		PublicBaseURL:    getenv("PUBLIC_BASE_URL", "http://localhost:8080"),
		SupabaseURL:      strings.TrimRight(strings.TrimSpace(os.Getenv("SUPABASE_URL")), "/"),
		SupabaseKey:      strings.TrimSpace(os.Getenv("SUPABASE_KEY")),
		Bucket:           getenv("SUPABASE_BUCKET", "cvs"),
		StorageAccessKey: os.Getenv("STORAGE_ACCESS_KEY"),
		StorageSecretKey: os.Getenv("STORAGE_SECRET_KEY"),
		StorageRegion:    getenv("STORAGE_REGION", "auto"),
		UploadDir:        getenv("UPLOAD_DIR", "uploads"),
		AdminUser:        getenv("ADMIN_USERNAME", "admin"),
		AdminPass:        getenv("ADMIN_PASSWORD", "admin"),
		DBURL:            os.Getenv("DB_URL"), // e.g., postgres://user:pass@db:5432/postgres
		TurnstileEnabled: parseBool(getenv("TURNSTILE_ENABLED", "true")),
	}
}

// SupabaseEnabled reports whether the remote store is configured; without it
// the service runs in local mode.
func (c *Config) SupabaseEnabled() bool {
	return c.SupabaseURL != "" && c.SupabaseKey != ""
}

// StorageEnabled reports whether the S3 storage credentials are configured.
func (c *Config) StorageEnabled() bool {
	return c.SupabaseEnabled() && c.StorageAccessKey != "" && c.StorageSecretKey != ""
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "0", "false", "no":
		return false
	}
	return true
}
