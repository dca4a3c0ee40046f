package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrNotFound reports that no config file exists at the searched locations.
var ErrNotFound = errors.New("no config file")

// FileConfig is the on-disk YAML configuration shape for keyward.
// Pointer fields distinguish "unset" from zero values so that local and
// global files can be layered.
type FileConfig struct {
	AllFiles        *bool    `yaml:"all_files"`
	NumCores        *int     `yaml:"num_cores"`
	ExcludeFiles    []string `yaml:"exclude_files"`
	ExcludeLines    []string `yaml:"exclude_lines"`
	DisablePlugins  []string `yaml:"disable_plugins"`
	Base64Limit     *float64 `yaml:"base64_limit"`
	HexLimit        *float64 `yaml:"hex_limit"`
	MaxBytes        *int64   `yaml:"max_bytes"`
	DefaultExcludes *bool    `yaml:"default_excludes"`
	Cache           *bool    `yaml:"cache"`
	LogFile         *string  `yaml:"log_file"`
	NoColor         *bool    `yaml:"no_color"`
}

// LoadFile reads a YAML config file from the provided path. Unknown keys
// are rejected so typos do not silently change scan settings.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, err
	}
	return cfg, nil
}

// LoadLocal searches for a repo-local config file in the given root.
// It supports .keyward.yml/.yaml and keyward.yml/.yaml.
func LoadLocal(repoRoot string) (FileConfig, error) {
	var cfg FileConfig
	for _, name := range []string{".keyward.yml", ".keyward.yaml", "keyward.yml", "keyward.yaml"} {
		p := filepath.Join(repoRoot, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return cfg, fmt.Errorf("local: %w", ErrNotFound)
}

// GlobalPath returns the global config location, or "" when neither
// XDG_CONFIG_HOME nor a home directory is available.
func GlobalPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return ""
	}
	return filepath.Join(base, "keyward", "config.yml")
}

// LoadGlobal loads the global config file from XDG base directory or ~/.config.
func LoadGlobal() (FileConfig, error) {
	var cfg FileConfig
	p := GlobalPath()
	if p == "" {
		return cfg, fmt.Errorf("no config dir: %w", ErrNotFound)
	}
	if _, err := os.Stat(p); err == nil {
		return LoadFile(p)
	}
	return cfg, fmt.Errorf("global: %w", ErrNotFound)
}

// Layered holds the local and global files; either may be empty.
type Layered struct {
	Local  FileConfig
	Global FileConfig
}

// Load reads both layers. Missing files are not an error; malformed ones are.
func Load(repoRoot string) (Layered, error) {
	var l Layered
	var err error
	if l.Local, err = LoadLocal(repoRoot); err != nil && !errors.Is(err, ErrNotFound) {
		return l, err
	}
	if l.Global, err = LoadGlobal(); err != nil && !errors.Is(err, ErrNotFound) {
		return l, err
	}
	return l, nil
}

// Strings returns the local list when set, else the global one.
func Strings(local, global []string) []string {
	if len(local) > 0 {
		return local
	}
	return global
}
