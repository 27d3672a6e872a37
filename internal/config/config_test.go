package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Country.CallingCode != "256" {
		t.Fatalf("expected calling code 256, got %q", cfg.Country.CallingCode)
	}
	if len(cfg.Backends.Prefixes) != 4 || cfg.Backends.Prefixes[3].Backend != "dmark" {
		t.Fatalf("unexpected default backend prefixes: %+v", cfg.Backends.Prefixes)
	}
	if cfg.Export.MaxSheetRows != 65536 {
		t.Fatalf("expected 65536 sheet rows, got %d", cfg.Export.MaxSheetRows)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("XFORMREPORTS_COUNTRY_CALLING_CODE", "254")
	t.Setenv("XFORMREPORTS_DISTRICT_CUTOFF", "0.75")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Country.CallingCode != "254" {
		t.Fatalf("expected env calling code, got %q", cfg.Country.CallingCode)
	}
	if cfg.District.Cutoff != 0.75 {
		t.Fatalf("expected cutoff 0.75, got %v", cfg.District.Cutoff)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "backends:\n  prefixes:\n    - prefix: \"77\"\n      backend: mtn\n    - prefix: \"\"\n      backend: yo\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Backends.Prefixes) != 2 || cfg.Backends.Prefixes[0].Backend != "mtn" {
		t.Fatalf("unexpected prefixes: %+v", cfg.Backends.Prefixes)
	}
}

func TestLoadGeneratesSecret(t *testing.T) {
	first, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	second, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(first.Session.Secret) != 64 {
		t.Fatalf("expected a 64 character secret, got %q", first.Session.Secret)
	}
	if first.Session.Secret == second.Session.Secret {
		t.Fatalf("generated secrets must differ between loads")
	}
}

func TestLoadKeepsConfiguredSecret(t *testing.T) {
	t.Setenv("XFORMREPORTS_SESSION_SECRET", "s3cret")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Session.Secret != "s3cret" {
		t.Fatalf("expected configured secret, got %q", cfg.Session.Secret)
	}
}

func TestValidateRejectsEmptySecret(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation error for empty secret")
	}

	cfg.Session.Secret = "s3cret"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestValidateRejectsCutoff(t *testing.T) {
	cfg := Default()
	cfg.Session.Secret = "s3cret"
	cfg.District.Cutoff = 1.5
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation error")
	}
}
