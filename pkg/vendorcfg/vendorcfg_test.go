package vendorcfg

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vendors.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
default_library: /opt/neuroshare/nsNEVLibrary.so
libraries:
  nev: /opt/neuroshare/nsNEVLibrary.so
  plx: /opt/neuroshare/nsPlxLibrary.so
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DefaultLibrary != "/opt/neuroshare/nsNEVLibrary.so" {
		t.Errorf("DefaultLibrary: got %q", cfg.DefaultLibrary)
	}
	if len(cfg.Libraries) != 2 {
		t.Errorf("Libraries: got %d entries, want 2", len(cfg.Libraries))
	}
	if cfg.Libraries["plx"] != "/opt/neuroshare/nsPlxLibrary.so" {
		t.Errorf("plx mapping: got %q", cfg.Libraries["plx"])
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load of missing file failed: %v", err)
	}
	if cfg.DefaultLibrary != "" || len(cfg.Libraries) != 0 {
		t.Errorf("missing file: got non-empty config %+v", cfg)
	}
}

func TestLoadMalformed(t *testing.T) {
	path := writeConfig(t, "libraries: [not, a, map]")

	if _, err := Load(path); err == nil {
		t.Error("Load accepted malformed YAML")
	}
}

func TestNormalizeKeys(t *testing.T) {
	path := writeConfig(t, `
libraries:
  .NEV: /opt/a.so
  " plx ": /opt/b.so
  "": /opt/ignored.so
  mcd: ""
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Libraries["nev"] != "/opt/a.so" {
		t.Errorf("nev: got %q, want /opt/a.so", cfg.Libraries["nev"])
	}
	if cfg.Libraries["plx"] != "/opt/b.so" {
		t.Errorf("plx: got %q, want /opt/b.so", cfg.Libraries["plx"])
	}
	if len(cfg.Libraries) != 2 {
		t.Errorf("Libraries: got %d entries, want 2: %v", len(cfg.Libraries), cfg.Libraries)
	}
}

func TestResolve(t *testing.T) {
	cfg := &Config{
		DefaultLibrary: "/opt/default.so",
		Libraries: map[string]string{
			"nev": "/opt/nev.so",
			"plx": "/opt/plx.so",
		},
	}

	tests := []struct {
		path     string
		expected string
		found    bool
	}{
		{"session01.nev", "/opt/nev.so", true},
		{"/data/run2/session01.NEV", "/opt/nev.so", true},
		{"spikes.plx", "/opt/plx.so", true},
		{"other.mcd", "/opt/default.so", true},
		{"noextension", "/opt/default.so", true},
	}

	for _, tt := range tests {
		got, ok := cfg.Resolve(tt.path)
		if ok != tt.found || got != tt.expected {
			t.Errorf("Resolve(%q): got %q/%v, want %q/%v", tt.path, got, ok, tt.expected, tt.found)
		}
	}
}

func TestResolveNothingConfigured(t *testing.T) {
	cfg := &Config{}
	cfg.Normalize()

	if lib, ok := cfg.Resolve("session01.nev"); ok {
		t.Errorf("Resolve on empty config: got %q, want none", lib)
	}
}
