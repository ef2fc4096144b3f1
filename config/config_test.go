package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config failed validation: %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bandmap.yaml")
	content := `
operator:
  callsign: K6GTE
  grid: DM13AT
  max_spotter_miles: 750
  general_only: true
spots:
  ttl_seconds: 300
  bands: ["40", "20"]
ui:
  mode: plain
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Operator.Callsign != "K6GTE" {
		t.Errorf("callsign = %q, want K6GTE", cfg.Operator.Callsign)
	}
	if !cfg.Operator.GeneralOnly {
		t.Error("general_only not applied")
	}
	if cfg.Spots.TTLSeconds != 300 {
		t.Errorf("ttl = %d, want 300", cfg.Spots.TTLSeconds)
	}
	if len(cfg.Spots.Bands) != 2 || cfg.Spots.Bands[0] != "40" {
		t.Errorf("bands = %v, want [40 20]", cfg.Spots.Bands)
	}
	// Untouched sections keep their defaults.
	if cfg.RBN.Host != "telnet.reversebeacon.net" || cfg.RBN.Port != 7000 {
		t.Errorf("rbn defaults lost: %+v", cfg.RBN)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("loaded config failed validation: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidateRejectsBadInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty callsign", func(c *Config) { c.Operator.Callsign = " " }},
		{"odd grid", func(c *Config) { c.Operator.Grid = "DM1" }},
		{"long grid", func(c *Config) { c.Operator.Grid = "DM13AT23XX" }},
		{"zero distance", func(c *Config) { c.Operator.MaxSpotterMiles = 0 }},
		{"no rbn host", func(c *Config) { c.RBN.Host = "" }},
		{"no roster url", func(c *Config) { c.Roster.URL = "" }},
		{"zero ttl", func(c *Config) { c.Spots.TTLSeconds = 0 }},
		{"no bands", func(c *Config) { c.Spots.Bands = nil }},
		{"unknown band", func(c *Config) { c.Spots.Bands = []string{"11"} }},
		{"zero rig poll", func(c *Config) { c.Rig.PollMS = 0 }},
		{"negative rig poll", func(c *Config) { c.Rig.PollMS = -250 }},
		{"zero ui refresh", func(c *Config) { c.UI.RefreshMS = 0 }},
		{"bad ui mode", func(c *Config) { c.UI.Mode = "curses" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
