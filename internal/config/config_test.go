package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if errWrite := os.WriteFile(path, []byte(content), 0o600); errWrite != nil {
		t.Fatalf("write config: %v", errWrite)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  dsn: "file:orgdesk.db"
jwt:
  secret: "s"
`)
	cfg, errLoad := Load(path)
	if errLoad != nil {
		t.Fatalf("load: %v", errLoad)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("expected default addr :8080, got %q", cfg.Server.Addr)
	}
	if cfg.JWT.Expiry() != 24*time.Hour {
		t.Fatalf("expected default expiry 24h, got %s", cfg.JWT.Expiry())
	}
	if cfg.Redis.LoginPerMinute != 10 {
		t.Fatalf("expected default login rate 10, got %d", cfg.Redis.LoginPerMinute)
	}
	if cfg.Log.Level != "info" {
		t.Fatalf("expected default log level info, got %q", cfg.Log.Level)
	}
}

func TestLoadRejectsMissingRequiredFields(t *testing.T) {
	noDSN := writeConfig(t, `
jwt:
  secret: "s"
`)
	if _, errLoad := Load(noDSN); errLoad == nil {
		t.Fatal("expected error for missing database.dsn")
	}

	noSecret := writeConfig(t, `
database:
  dsn: "file:orgdesk.db"
`)
	if _, errLoad := Load(noSecret); errLoad == nil {
		t.Fatal("expected error for missing jwt.secret")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, errLoad := Load(filepath.Join(t.TempDir(), "absent.yaml")); errLoad == nil {
		t.Fatal("expected error for absent config file")
	}
}

func TestResolveConfigPath(t *testing.T) {
	if got := ResolveConfigPath(" explicit.yaml "); got != "explicit.yaml" {
		t.Fatalf("expected explicit path, got %q", got)
	}

	t.Setenv("ORGDESK_CONFIG", "/etc/orgdesk/config.yaml")
	if got := ResolveConfigPath(""); got != "/etc/orgdesk/config.yaml" {
		t.Fatalf("expected env path, got %q", got)
	}

	t.Setenv("ORGDESK_CONFIG", "")
	if got := ResolveConfigPath(""); got != "config.yaml" {
		t.Fatalf("expected fallback config.yaml, got %q", got)
	}
}
