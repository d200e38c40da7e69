package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dukerupert/homebase/internal/model"
)

const testSecret = "0123456789abcdef0123"

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "homebase.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("HOMEBASE_PIN", "1234")
	t.Setenv("HOMEBASE_SESSION_SECRET", testSecret)
	t.Setenv("HOMEBASE_PORT", "9090")
	t.Setenv("HOMEBASE_RETENTION_DAYS", "5")
	t.Setenv("HOMEBASE_ALLOWED_ORIGINS", "home.example.com, *.local ,")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "9090" || cfg.Addr() != ":9090" {
		t.Errorf("port = %q, addr = %q", cfg.Port, cfg.Addr())
	}
	if cfg.RetentionDays != 5 {
		t.Errorf("retention_days = %d, want 5", cfg.RetentionDays)
	}
	if cfg.DBPath != "./data/homebase.db" {
		t.Errorf("db_path = %q, want default", cfg.DBPath)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "*.local" {
		t.Errorf("allowed_origins = %v", cfg.AllowedOrigins)
	}
	if cfg.PIN != "" {
		t.Error("plain pin should be cleared after hashing")
	}
	if !cfg.CheckPIN("1234") {
		t.Error("CheckPIN(1234) = false, want true")
	}
	if cfg.CheckPIN("0000") {
		t.Error("CheckPIN(0000) = true, want false")
	}
}

func TestLoadYAMLThenEnv(t *testing.T) {
	path := writeConfig(t, `
port: "7000"
pin: "4321"
session_secret: "`+testSecret+`"
members:
  a: Talor
  b: Romi
backup:
  hour: 4
  s3:
    bucket: homebase
`)
	t.Setenv("HOMEBASE_MEMBER_B", "Robin")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "7000" {
		t.Errorf("port = %q, want 7000", cfg.Port)
	}
	if cfg.MemberName(model.MemberA) != "Talor" {
		t.Errorf("member a = %q, want Talor", cfg.MemberName(model.MemberA))
	}
	if cfg.MemberName(model.MemberB) != "Robin" {
		t.Errorf("member b = %q, want env override Robin", cfg.MemberName(model.MemberB))
	}
	if cfg.MemberName("x") != "" {
		t.Error("unknown member should have no name")
	}
	if cfg.Backup.Hour != 4 || cfg.Backup.RetentionDays != 30 {
		t.Errorf("backup = %+v", cfg.Backup)
	}
	if cfg.Backup.S3.Bucket != "homebase" {
		t.Errorf("bucket = %q", cfg.Backup.S3.Bucket)
	}
	if !cfg.CheckPIN("4321") {
		t.Error("yaml pin should verify")
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		file string
		want string
	}{
		{"missing pin", map[string]string{"HOMEBASE_SESSION_SECRET": testSecret}, "", "pin is required"},
		{"short secret", map[string]string{"HOMEBASE_PIN": "1", "HOMEBASE_SESSION_SECRET": "short"}, "", "session_secret"},
		{"bad hour", map[string]string{"HOMEBASE_PIN": "1", "HOMEBASE_SESSION_SECRET": testSecret, "HOMEBASE_BACKUP_HOUR": "24"}, "", "backup.hour"},
		{"bad int", map[string]string{"HOMEBASE_RETENTION_DAYS": "two"}, "", "HOMEBASE_RETENTION_DAYS"},
		{"same names", map[string]string{"HOMEBASE_PIN": "1", "HOMEBASE_SESSION_SECRET": testSecret, "HOMEBASE_MEMBER_A": "Sam", "HOMEBASE_MEMBER_B": "Sam"}, "", "must differ"},
		{"half vapid", map[string]string{"HOMEBASE_PIN": "1", "HOMEBASE_SESSION_SECRET": testSecret, "HOMEBASE_VAPID_PUBLIC_KEY": "pub"}, "", "vapid"},
		{"bad yaml", nil, "port: [", "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeConfig(t, tt.file)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestPushEnabled(t *testing.T) {
	cfg := Defaults()
	if cfg.PushEnabled() {
		t.Error("push should be disabled by default")
	}
	cfg.Push.VAPIDPublicKey, cfg.Push.VAPIDPrivateKey = "pub", "priv"
	if !cfg.PushEnabled() {
		t.Error("push should be enabled with both keys")
	}
}
