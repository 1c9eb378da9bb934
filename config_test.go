package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":8080" || cfg.DBDriver != "sqlite" || cfg.MaxConnsPerIP != defaultMaxConnsPerIP {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestLoadConfigEnvAndFlags(t *testing.T) {
	t.Setenv("ADDR", ":9000")
	t.Setenv("MAX_CONNS_PER_IP", "2")
	t.Setenv("PUBLIC_URL", "https://play.example")

	cfg, err := LoadConfig("", []string{"-addr", ":9100", "-db", "other.db"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":9100" {
		t.Errorf("flag should override env, addr = %q", cfg.Addr)
	}
	if cfg.DBDSN != "other.db" || cfg.MaxConnsPerIP != 2 || cfg.PublicURL != "https://play.example" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadConfigEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("STATIC_DIR=/srv/www\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// godotenv never overrides a set variable; t.Setenv restores it afterwards
	t.Setenv("STATIC_DIR", "")
	os.Unsetenv("STATIC_DIR")

	cfg, err := LoadConfig(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.StaticDir != "/srv/www" {
		t.Errorf("static dir = %q", cfg.StaticDir)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")
	if _, err := LoadConfig("", nil); err == nil {
		t.Error("unknown driver accepted")
	}
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("MAX_TOTAL_CONNS", "0")
	if _, err := LoadConfig("", nil); err == nil {
		t.Error("zero connection limit accepted")
	}
}

func TestInviteURL(t *testing.T) {
	if got := inviteURL("http://x.test/", "a&b"); got != "http://x.test/?challenge=a%26b" {
		t.Errorf("inviteURL = %q", got)
	}
}

func TestLoadConfigHashKeyFlag(t *testing.T) {
	cfg, err := LoadConfig("", []string{"-hash-admin-key", "some-admin-key"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HashKey != "some-admin-key" {
		t.Errorf("HashKey = %q", cfg.HashKey)
	}
}
