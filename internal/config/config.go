// Package config handles repository configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents repository configuration stored in .folio/config.yml.
type Config struct {
	// JournalCode is the default journal for imports that leave the
	// "Journal code" column blank.
	JournalCode string `yaml:"journal_code,omitempty"`

	// OwnerEmail identifies the account recorded as owner of imported
	// articles.
	OwnerEmail string `yaml:"owner_email,omitempty"`

	// ExtraStages widens the stage vocabulary accepted by imports.
	ExtraStages []string `yaml:"extra_stages,omitempty"`

	// OJSBaseURL and OJSUsername configure the remote OJS fetcher. The
	// password comes from the environment, never from this file.
	OJSBaseURL  string `yaml:"ojs_base_url,omitempty"`
	OJSUsername string `yaml:"ojs_username,omitempty"`
}

const (
	FolioDir   = ".folio"
	ConfigFile = "config.yml"
	DBFile     = "catalog.db"
	StagingDir = "staging"
)

// FolioPath returns the path to the .folio directory from a root path.
func FolioPath(root string) string {
	return filepath.Join(root, FolioDir)
}

// ConfigPath returns the path to config.yml from a root path.
func ConfigPath(root string) string {
	return filepath.Join(root, FolioDir, ConfigFile)
}

// DBPath returns the path to the catalog database from a root path.
func DBPath(root string) string {
	return filepath.Join(root, FolioDir, DBFile)
}

// StagingPath returns the path to the staging directory used when
// unpacking import archives.
func StagingPath(root string) string {
	return filepath.Join(root, FolioDir, StagingDir)
}

// IsRepository checks if the given path contains a folio repository.
func IsRepository(root string) bool {
	info, err := os.Stat(FolioPath(root))
	return err == nil && info.IsDir()
}

// FindRepository walks up from the given path to find a folio repository.
// Returns the repository root path or an error if not found.
func FindRepository(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsRepository(abs) {
			return abs, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("not in a folio repository (no .folio directory found)")
		}
		abs = parent
	}
}

// Load reads configuration from the repository at the given root. A
// missing config file reads as an empty configuration.
func Load(root string) (*Config, error) {
	data, err := os.ReadFile(ConfigPath(root))
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}

// Save writes configuration to the repository at the given root.
func (c *Config) Save(root string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(root), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[1:])
}
