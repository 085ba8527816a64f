// Package vendorcfg maps recording file extensions to the vendor libraries
// that can read them, so commands do not need --library spelled out for
// every call.
package vendorcfg

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the vendor registry loaded from a YAML file:
//
//	default_library: /opt/neuroshare/nsNEVLibrary.so
//	libraries:
//	  nev: /opt/neuroshare/nsNEVLibrary.so
//	  plx: /opt/neuroshare/nsPlxLibrary.so
//	  mcd: /opt/neuroshare/nsMCDLibrary.so
type Config struct {
	DefaultLibrary string            `yaml:"default_library"`
	Libraries      map[string]string `yaml:"libraries"`
}

// DefaultPath returns the per-user registry location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "ephystools", "vendors.yaml")
}

// Load reads the registry at path. A missing file is not an error; it
// yields an empty registry so commands fall back to the --library flag.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := &Config{}
			cfg.Normalize()
			return cfg, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Normalize()
	return cfg, nil
}

// Normalize canonicalizes extension keys: lowercase, no leading dot.
func (cfg *Config) Normalize() {
	if cfg.Libraries == nil {
		cfg.Libraries = map[string]string{}
		return
	}
	normalized := make(map[string]string, len(cfg.Libraries))
	for ext, lib := range cfg.Libraries {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext == "" || strings.TrimSpace(lib) == "" {
			continue
		}
		normalized[ext] = lib
	}
	cfg.Libraries = normalized
}

// Resolve picks the vendor library for a recording by its extension,
// falling back to the default library when the extension is unmapped.
// The second result is false when no library applies at all.
func (cfg *Config) Resolve(recordingPath string) (string, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(recordingPath), "."))
	if lib, ok := cfg.Libraries[ext]; ok {
		return lib, true
	}
	if cfg.DefaultLibrary != "" {
		return cfg.DefaultLibrary, true
	}
	return "", false
}
