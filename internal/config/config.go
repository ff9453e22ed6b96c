// Package config loads ICL's process-wide configuration. Structured the
// way the teacher's internal/config package declares process constants, but
// promoted to an actually-loaded YAML document (gopkg.in/yaml.v3) since the
// pack registry needs an external manifest format.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// SourceFileExt is the conventional ICL source suffix (spec.md §6);
// no hard requirement is placed on callers.
const SourceFileExt = ".icl"

// Config is the process-wide default configuration: alias-normalization
// mode, default optimize behavior, and extra pack manifest files to load
// at startup.
type Config struct {
	AliasMode    string   `yaml:"alias_mode"`    // "core" or "extended"
	Optimize     bool     `yaml:"optimize"`
	Debug        bool     `yaml:"debug"`
	PackManifests []string `yaml:"pack_manifests"` // paths to YAML PackManifest documents
}

// Default returns the built-in default configuration.
func Default() Config {
	return Config{AliasMode: "core", Optimize: false, Debug: false}
}

// Load reads a YAML configuration document from path, falling back to
// Default() field values for anything left unset.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
