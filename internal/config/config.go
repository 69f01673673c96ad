// Package config holds the explicit runtime context for a skillforge run:
// the spoken language, the skills directory, and GitHub credentials. It
// replaces ambient process-wide state; every component that needs one of
// these values receives the struct explicitly.
package config

import (
	"fmt"
	"regexp"

	"github.com/spf13/viper"
)

// Config represents the full skillforge configuration.
type Config struct {
	Lang      string       `mapstructure:"lang"`
	SkillsDir string       `mapstructure:"skills_dir"`
	GitHub    GitHubConfig `mapstructure:"github"`
	Git       GitConfig    `mapstructure:"git"`
}

// GitHubConfig contains GitHub authentication settings.
type GitHubConfig struct {
	Token string `mapstructure:"token"`
}

// GitConfig contains local git settings.
type GitConfig struct {
	DefaultBranch string `mapstructure:"default_branch"`
}

// langPattern matches IETF-style language tags the skill tree uses for
// vocab/dialog subdirectories (e.g. "en-us").
var langPattern = regexp.MustCompile(`^[a-z]{2,3}(-[a-z]{2})?$`)

// Load loads configuration from file and environment.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(cfg)

	return cfg, nil
}

// applyDefaults sets default values for unset fields.
func applyDefaults(cfg *Config) {
	if cfg.Lang == "" {
		cfg.Lang = "en-us"
	}

	if cfg.SkillsDir == "" {
		cfg.SkillsDir = "/opt/mycroft/skills"
	}

	if cfg.Git.DefaultBranch == "" {
		cfg.Git.DefaultBranch = "master"
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if !langPattern.MatchString(c.Lang) {
		return fmt.Errorf("invalid lang: %s (expected a tag like en-us)", c.Lang)
	}

	if c.SkillsDir == "" {
		return fmt.Errorf("skills directory is required")
	}

	return nil
}

// ValidateForRemote performs additional validation required before any
// operation that talks to GitHub.
func (c *Config) ValidateForRemote() error {
	if err := c.Validate(); err != nil {
		return err
	}

	if c.GitHub.Token == "" {
		return fmt.Errorf("GitHub token is required (set github.token or SKILLFORGE_GITHUB_TOKEN)")
	}

	return nil
}
