package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"HTTP_PORT", "PUBLIC_BASE_URL", "SUPABASE_URL", "SUPABASE_KEY",
		"SUPABASE_BUCKET", "STORAGE_ACCESS_KEY", "STORAGE_SECRET_KEY",
		"STORAGE_REGION", "UPLOAD_DIR", "ADMIN_USERNAME", "ADMIN_PASSWORD",
		"DB_URL", "TURNSTILE_ENABLED",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.HTTPPort != ":8080" {
		t.Errorf("HTTPPort = %q", cfg.HTTPPort)
	}
	if cfg.Bucket != "cvs" {
		t.Errorf("Bucket = %q", cfg.Bucket)
	}
	if cfg.StorageRegion != "auto" {
		t.Errorf("StorageRegion = %q", cfg.StorageRegion)
	}
	if !cfg.TurnstileEnabled {
		t.Error("TurnstileEnabled should default to true")
	}
	if cfg.SupabaseEnabled() {
		t.Error("SupabaseEnabled without credentials")
	}
	if cfg.StorageEnabled() {
		t.Error("StorageEnabled without credentials")
	}
}

func TestLoadTrimsSupabaseURL(t *testing.T) {
	t.Setenv("SUPABASE_URL", " https://abc.supabase.co/ ")
	t.Setenv("SUPABASE_KEY", "service-role-key")
	t.Setenv("STORAGE_ACCESS_KEY", "ak")
	t.Setenv("STORAGE_SECRET_KEY", "sk")

	cfg := Load()
	if cfg.SupabaseURL != "https://abc.supabase.co" {
		t.Errorf("SupabaseURL = %q", cfg.SupabaseURL)
	}
	if !cfg.SupabaseEnabled() || !cfg.StorageEnabled() {
		t.Error("credentials not detected")
	}
}

func TestParseBool(t *testing.T) {
	for _, v := range []string{"0", "false", "FALSE", "no", " No "} {
		if parseBool(v) {
			t.Errorf("parseBool(%q) = true", v)
		}
	}
	for _, v := range []string{"1", "true", "yes", "anything"} {
		if !parseBool(v) {
			t.Errorf("parseBool(%q) = false", v)
		}
	}
}
