package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg := LoadConfig(filepath.Join(t.TempDir(), "nope.yml"))
	if cfg.Web.Port != 1816 {
		t.Fatalf("expected default port got %d", cfg.Web.Port)
	}
	if cfg.System.Location != "Asia/Kolkata" {
		t.Fatalf("expected default location got %s", cfg.System.Location)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	cfile := filepath.Join(t.TempDir(), "dairyledger.yml")
	data := `
system:
  appid: dairyledger
  location: Asia/Kolkata
  workdir: /tmp/dl
web:
  host: 127.0.0.1
  port: 2816
  secret: testsecret
database:
  type: sqlite
  name: ledger
`
	if err := os.WriteFile(cfile, []byte(data), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg := LoadConfig(cfile)
	if cfg.Web.Port != 2816 || cfg.Web.Secret != "testsecret" {
		t.Fatalf("unexpected web config %+v", cfg.Web)
	}
	if cfg.Database.Type != "sqlite" {
		t.Fatalf("unexpected db type %s", cfg.Database.Type)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("DAIRYLEDGER_WEB_SECRET", "from-env")
	cfg := LoadConfig("")
	if cfg.Web.Secret != "from-env" {
		t.Fatalf("env override not applied: %s", cfg.Web.Secret)
	}
}
