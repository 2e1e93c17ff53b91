package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.Ledger.LowStockThreshold != 5 {
		t.Errorf("LowStockThreshold: got %v, want 5", cfg.Ledger.LowStockThreshold)
	}
	if cfg.Storage.Backend != BackendJSON {
		t.Errorf("Backend: got %q, want json", cfg.Storage.Backend)
	}
	if cfg.Storage.Path != "inventory.json" {
		t.Errorf("Storage.Path: got %q, want inventory.json", cfg.Storage.Path)
	}
	if cfg.Logging.File != "inventory.log" {
		t.Errorf("Logging.File: got %q, want inventory.log", cfg.Logging.File)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadNoFile(t *testing.T) {
	// Load with empty path and no inventory.toml in the working dir → defaults
	chdir(t, t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage.Path != "inventory.json" {
		t.Errorf("Storage.Path: got %q, want inventory.json", cfg.Storage.Path)
	}
}

func TestLoadDefaultPathInWorkingDir(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	if err := os.WriteFile(DefaultPath, []byte("[ledger]\nlow_stock_threshold = 3\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Ledger.LowStockThreshold != 3 {
		t.Errorf("LowStockThreshold: got %v, want 3", cfg.Ledger.LowStockThreshold)
	}
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "inventory.toml")
	toml := `
[ledger]
low_stock_threshold = 2.5

[storage]
backend = "bolt"
path = "/tmp/stock.db"

[logging]
level = "debug"
format = "json"
file = ""
`
	if err := os.WriteFile(path, []byte(toml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Ledger.LowStockThreshold != 2.5 {
		t.Errorf("LowStockThreshold: got %v", cfg.Ledger.LowStockThreshold)
	}
	if cfg.Storage.Backend != BackendBolt {
		t.Errorf("Backend: got %q", cfg.Storage.Backend)
	}
	if cfg.Storage.Path != "/tmp/stock.db" {
		t.Errorf("Storage.Path: got %q", cfg.Storage.Path)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("Logging: got %+v", cfg.Logging)
	}
	if cfg.Logging.File != "" {
		t.Errorf("Logging.File: got %q, want empty", cfg.Logging.File)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.toml")
	if err := os.WriteFile(path, []byte("[storage]\npath = \"other.json\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Storage.Path != "other.json" {
		t.Errorf("Storage.Path: got %q", cfg.Storage.Path)
	}
	if cfg.Storage.Backend != BackendJSON || cfg.Ledger.LowStockThreshold != 5 {
		t.Errorf("unset fields should keep defaults: %+v", cfg)
	}
}

func TestLoadBadTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(path, []byte("{{invalid"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for invalid TOML")
	}
}

func TestLoadUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.toml")
	if err := os.WriteFile(path, []byte("[storage]\nbakend = \"bolt\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for misspelled key")
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}

	got := ExpandHome("~/foo/bar")
	want := filepath.Join(home, "foo/bar")
	if got != want {
		t.Errorf("ExpandHome: got %q, want %q", got, want)
	}

	// Non-home path unchanged
	if got := ExpandHome("/absolute/path"); got != "/absolute/path" {
		t.Errorf("ExpandHome: got %q, want /absolute/path", got)
	}
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restore working dir: %v", err)
		}
	})
}
