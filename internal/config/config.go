// Package config loads and saves the CLI configuration: an ordered list of
// registry sources plus global client defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"nugo/internal/nuget"
)

// Auth holds one source's credential configuration.
type Auth struct {
	Type     string `toml:"type"`
	Username string `toml:"username,omitempty"`
	Secret   string `toml:"secret,omitempty"`
	Header   string `toml:"header,omitempty"` // custom header name for api-key auth
}

// Source is one configured registry in the config file. Order in the file
// is preserved and determines dedup tie-breaks.
type Source struct {
	ID      string `toml:"id"`
	Name    string `toml:"name,omitempty"`
	Kind    string `toml:"kind,omitempty"`
	URL     string `toml:"url"`
	Enabled bool   `toml:"enabled"`
	Auth    *Auth  `toml:"auth,omitempty"`
}

// Defaults are the global client settings.
type Defaults struct {
	SemVerLevel         string `toml:"semver_level,omitempty"`
	ServiceIndexTimeout int    `toml:"service_index_timeout_seconds,omitempty"`
	SearchTimeout       int    `toml:"search_timeout_seconds,omitempty"`
	MetadataTimeout     int    `toml:"metadata_timeout_seconds,omitempty"`
	ReadmeTimeout       int    `toml:"readme_timeout_seconds,omitempty"`
}

// Config is the full on-disk configuration.
type Config struct {
	Defaults Defaults `toml:"defaults,omitempty"`
	Sources  []Source `toml:"sources"`
}

// Dir returns the config directory path.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".nugo"), nil
}

// Path returns the full path to config.toml.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the configuration, returning a default single-source config
// pointing at nuget.org when no file exists yet.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Config{}, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the configuration from an explicit path.
func LoadFrom(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to config.toml, creating the directory if
// needed. The file may hold secrets, so it is written 0600.
func Save(cfg Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the configuration to an explicit path.
func SaveTo(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// DefaultConfig is the configuration used before any file exists: the
// public nuget.org source, enabled, no credentials.
func DefaultConfig() Config {
	return Config{
		Sources: []Source{{
			ID:      "nuget.org",
			Name:    "nuget.org",
			Kind:    "nuget",
			URL:     "https://api.nuget.org/v3/index.json",
			Enabled: true,
		}},
	}
}

// ClientSources converts the configured sources into client descriptors,
// preserving order.
func (c Config) ClientSources() []nuget.Source {
	out := make([]nuget.Source, 0, len(c.Sources))
	for _, s := range c.Sources {
		name := s.Name
		if name == "" {
			name = s.ID
		}
		src := nuget.Source{
			ID:       s.ID,
			Name:     name,
			Kind:     s.Kind,
			IndexURL: s.URL,
			Enabled:  s.Enabled,
		}
		if s.Auth != nil {
			src.Auth = &nuget.AuthConfig{
				Type:       nuget.AuthType(s.Auth.Type),
				Username:   s.Auth.Username,
				Secret:     s.Auth.Secret,
				HeaderName: s.Auth.Header,
			}
		}
		out = append(out, src)
	}
	return out
}

// ClientOptions converts the configured defaults into client options.
func (c Config) ClientOptions() nuget.Options {
	d := c.Defaults
	return nuget.Options{
		SemVerLevel: d.SemVerLevel,
		Timeouts: nuget.Timeouts{
			ServiceIndex: time.Duration(d.ServiceIndexTimeout) * time.Second,
			Search:       time.Duration(d.SearchTimeout) * time.Second,
			Metadata:     time.Duration(d.MetadataTimeout) * time.Second,
			Readme:       time.Duration(d.ReadmeTimeout) * time.Second,
		},
	}
}

// FindSource returns the configured source with the given ID.
func (c Config) FindSource(id string) (Source, bool) {
	for _, s := range c.Sources {
		if s.ID == id {
			return s, true
		}
	}
	return Source{}, false
}
