package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in ~/.config/folio/config.yml.
// Repository config takes precedence over these defaults.
type GlobalConfig struct {
	JournalCode string `yaml:"journal_code,omitempty"`
	OwnerEmail  string `yaml:"owner_email,omitempty"`
	OJSBaseURL  string `yaml:"ojs_base_url,omitempty"`
	OJSUsername string `yaml:"ojs_username,omitempty"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "folio"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
)

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/folio/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobalConfig loads the global configuration file.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	path := GlobalConfigPath()
	if path == "" {
		return &GlobalConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalConfig{}, nil
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing global config: %w", err)
	}

	globalConfigCache = &cfg
	return &cfg, nil
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

// Effective overlays the repository config on the global defaults.
func Effective(repo *Config) *Config {
	global, _ := LoadGlobalConfig()
	out := *repo
	if out.JournalCode == "" {
		out.JournalCode = global.JournalCode
	}
	if out.OwnerEmail == "" {
		out.OwnerEmail = global.OwnerEmail
	}
	if out.OJSBaseURL == "" {
		out.OJSBaseURL = global.OJSBaseURL
	}
	if out.OJSUsername == "" {
		out.OJSUsername = global.OJSUsername
	}
	return &out
}
