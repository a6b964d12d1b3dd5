package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultBaseBranch is the proposal target branch when the config file
// leaves it unset.
const DefaultBaseBranch = "main"

// Config represents the flat recipebump configuration.
type Config struct {
	Version string `json:"version"`

	// UpstreamRepo is the "owner/name" of the recipes repository on the
	// code host.
	UpstreamRepo string `json:"upstream_repo"`
	// RepoPath is the local checkout of the recipes repository.
	// Declarations live under RepoPath/Recipes.
	RepoPath string `json:"repo_path"`
	// BaseBranch is the proposal target branch.
	BaseBranch string `json:"base_branch,omitempty"`

	// HostToken authenticates against the code-host API.
	HostToken string `json:"host_token,omitempty"`

	// AuditCommand overrides the external audit tool invocation.
	AuditCommand string `json:"audit_command,omitempty"`
	// Browser is the program used by --browse to open proposal URLs.
	Browser string `json:"browser,omitempty"`
}

// LoadConfig reads .recipebump/config.json from the specified directory.
// Returns an error if no config is found - the caller decides whether a
// missing config is fatal for its command.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, ".recipebump", "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults(dir)
	return &cfg, nil
}

// SaveConfig writes config.json to the directory.
func SaveConfig(dir string, cfg *Config) error {
	cfgDir := filepath.Join(dir, ".recipebump")
	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		return fmt.Errorf("failed to create .recipebump dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(cfgDir, "config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

func (c *Config) applyDefaults(dir string) {
	if c.BaseBranch == "" {
		c.BaseBranch = DefaultBaseBranch
	}
	if c.RepoPath == "" {
		c.RepoPath = dir
	}
}
