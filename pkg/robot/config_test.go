package robot

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigFrom_Defaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chady.yaml")
	if err := os.WriteFile(path, []byte("server: http://10.0.0.5:5001\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFrom(path)
	if err != nil {
		t.Fatalf("LoadConfigFrom: %v", err)
	}
	if cfg.Server != "http://10.0.0.5:5001" {
		t.Errorf("Server = %q", cfg.Server)
	}
	if cfg.PollInterval != time.Second || cfg.NotifyDelay != time.Second {
		t.Errorf("intervals = %v, %v; want 1s, 1s", cfg.PollInterval, cfg.NotifyDelay)
	}
	if cfg.HistorySize != 20 {
		t.Errorf("HistorySize = %d, want 20", cfg.HistorySize)
	}
	if cfg.CommandRate != 0 {
		t.Errorf("CommandRate = %f, want 0", cfg.CommandRate)
	}
}

func TestLoadConfigFrom_Durations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chady.yaml")
	data := "server: http://robot:5001\npollInterval: 250ms\nrequestTimeout: 2s\nhistorySize: 50\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFrom(path)
	if err != nil {
		t.Fatalf("LoadConfigFrom: %v", err)
	}
	if cfg.PollInterval != 250*time.Millisecond {
		t.Errorf("PollInterval = %v", cfg.PollInterval)
	}
	if cfg.RequestTimeout != 2*time.Second {
		t.Errorf("RequestTimeout = %v", cfg.RequestTimeout)
	}
	if cfg.HistorySize != 50 {
		t.Errorf("HistorySize = %d", cfg.HistorySize)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty server", func(c *Config) { c.Server = "" }},
		{"zero poll interval", func(c *Config) { c.PollInterval = 0 }},
		{"zero history", func(c *Config) { c.HistorySize = 0 }},
		{"negative rate", func(c *Config) { c.CommandRate = -1 }},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }},
		{"inverted range", func(c *Config) { c.Charts.Pitch = Range{Min: 10, Max: -10} }},
	}

	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: Validate() = nil, want error", tt.name)
		}
	}
}

func TestConfig_SaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chady.yaml")
	cfg := DefaultConfig()
	cfg.Server = "http://192.168.1.20:5001"
	cfg.CommandRate = 5

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	if !ConfigExists(path) {
		t.Fatal("ConfigExists = false after SaveTo")
	}

	loaded, err := LoadConfigFrom(path)
	if err != nil {
		t.Fatalf("LoadConfigFrom: %v", err)
	}
	if loaded.Server != cfg.Server || loaded.CommandRate != 5 || loaded.PollInterval != cfg.PollInterval {
		t.Errorf("loaded = %+v, want %+v", loaded, cfg)
	}
}
