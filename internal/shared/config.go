package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Notes       NotesConfig       `toml:"notes"`
	Credentials CredentialsConfig `toml:"credentials"`
	AniList     AniListConfig     `toml:"anilist"`
	Database    DatabaseConfig    `toml:"database"`
}

// NotesConfig controls where notes are read from and written to.
type NotesConfig struct {
	// Mode is one of local-only, anilist-only, local-anilist-synced, dual-view.
	// Unrecognized values fall back to dual-view.
	Mode string `toml:"mode"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	AniList AniListCredentials `toml:"anilist"`
}

// AniListCredentials contains the AniList API access token.
//
// Token acquisition is out of scope: paste a token obtained from the AniList
// developer settings page.
type AniListCredentials struct {
	Token    string `toml:"token"`
	Username string `toml:"username"`
}

// AniListConfig contains AniList API client settings.
type AniListConfig struct {
	BaseURL   string  `toml:"base_url"`
	RateLimit float64 `toml:"rate_limit"` // requests per second
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, err)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
