// Package config loads canon's layered runtime configuration.
// Settings merge in order: embedded defaults, the operator's config.yml
// inside the managed tree, a canon.toml at the project root, and
// CANON_-prefixed environment variables. Later layers win.
package config

import (
	"github.com/bmatcuk/doublestar/v4"

	"github.com/canonhq/canon/pkg/errors"
	"github.com/canonhq/canon/pkg/ownership"
)

// Tree holds settings that change how the managed tree is classified.
type Tree struct {
	// Customizable lists extra doublestar patterns treated as
	// operator-customizable on top of the built-in rules.
	Customizable []string `koanf:"customizable"`
}

// Snapshots holds backup store settings.
type Snapshots struct {
	// Retention is how many snapshots Prune keeps, newest first.
	Retention int `koanf:"retention"`
}

// Display holds output preferences.
type Display struct {
	// Format is one of auto, terminal, text, json. Parsed by pkg/ui;
	// auto picks based on the output destination.
	Format string `koanf:"format"`
}

// Config is the merged configuration for one invocation.
type Config struct {
	Tree      Tree      `koanf:"tree"`
	Snapshots Snapshots `koanf:"snapshots"`
	Display   Display   `koanf:"display"`
}

// Validate rejects values no command could act on.
func (c *Config) Validate() error {
	if c.Snapshots.Retention < 0 {
		return errors.Newf(errors.ErrConfigParse,
			"snapshots.retention must not be negative, got %d", c.Snapshots.Retention)
	}
	for _, pattern := range c.Tree.Customizable {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Newf(errors.ErrConfigParse,
				"invalid customizable pattern %q", pattern)
		}
	}
	return nil
}

// Classifier builds the ownership classifier for this configuration,
// folding in any extra customizable patterns the release bundle declares.
func (c *Config) Classifier(bundleCustomizable ...string) (*ownership.Classifier, error) {
	extra := make([]string, 0, len(c.Tree.Customizable)+len(bundleCustomizable))
	extra = append(extra, c.Tree.Customizable...)
	extra = append(extra, bundleCustomizable...)
	return ownership.NewClassifier(extra...)
}
