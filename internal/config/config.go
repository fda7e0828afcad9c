package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	RegistryURL    string        `yaml:"registry_url"`
	DownloadsURL   string        `yaml:"downloads_url"`
	Timeout        time.Duration `yaml:"timeout"`
	CacheTTL       time.Duration `yaml:"cache_ttl"`
	MaxConcurrent  int           `yaml:"max_concurrent"`
	MaxDepth       int           `yaml:"max_depth"`
	Exclude        []string      `yaml:"exclude"`
	PackageManager string        `yaml:"package_manager"`
	ViewportChrome int           `yaml:"viewport_chrome"`
	DefaultVerbose bool          `yaml:"default_verbose"`
	DefaultQuiet   bool          `yaml:"default_quiet"`
}

var defaults = Config{
	RegistryURL:    "https://registry.npmjs.org",
	DownloadsURL:   "https://api.npmjs.org",
	Timeout:        30 * time.Second,
	CacheTTL:       5 * time.Minute,
	MaxConcurrent:  10,
	MaxDepth:       8,
	Exclude:        []string{"node_modules", ".git", "dist", "build", ".next", "coverage"},
	ViewportChrome: 8,
}

// Paths returns the config files consulted by Load, in priority order.
func Paths() []string {
	home := os.Getenv("HOME")
	return []string{
		filepath.Join(home, ".config", "inup", "config.yaml"),
		filepath.Join(home, ".inup.yaml"),
	}
}

func Load() (*Config, error) {
	return LoadFrom(Paths()...)
}

// LoadFrom reads the first existing file of paths over the defaults and
// then applies INUP_* environment overrides.
func LoadFrom(paths ...string) (*Config, error) {
	cfg := Default()

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
		break
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("INUP_REGISTRY"); v != "" {
		cfg.RegistryURL = v
	}
	if v := os.Getenv("INUP_DOWNLOADS_API"); v != "" {
		cfg.DownloadsURL = v
	}
	if v := os.Getenv("INUP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Timeout = d
		}
	}
	if v := os.Getenv("INUP_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.CacheTTL = d
		}
	}
	if v := os.Getenv("INUP_MAX_CONCURRENT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxConcurrent = n
		}
	}
	if v := os.Getenv("INUP_MAX_DEPTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxDepth = n
		}
	}
	if v := os.Getenv("INUP_PACKAGE_MANAGER"); v != "" {
		cfg.PackageManager = strings.ToLower(v)
	}
	if v := os.Getenv("INUP_VIEWPORT_CHROME"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ViewportChrome = n
		}
	}
}

// Default returns a fresh copy of the built-in configuration.
func Default() *Config {
	cfg := defaults
	cfg.Exclude = append([]string(nil), defaults.Exclude...)
	return &cfg
}
