// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/stitchcalc/internal/model"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Defaults      DefaultsConfig       `toml:"defaults"`
	CustomActions []CustomActionConfig `toml:"custom-action"`
}

// DefaultsConfig maps settings that apply when a flag is not given.
type DefaultsConfig struct {
	Project      *string `toml:"project"`
	Construction *string `toml:"construction"`
	PatternType  *string `toml:"pattern-type"`
	MaxRepeats   *int    `toml:"max-repeats"`
}

// CustomActionConfig declares a custom action in the config file.
type CustomActionConfig struct {
	Name        string `toml:"name"`
	Consumes    int    `toml:"consumes"`
	Produces    int    `toml:"produces"`
	PatternType string `toml:"pattern-type"`
}

// Action converts the entry to a validated model.CustomAction. An empty
// pattern type means general.
func (c CustomActionConfig) Action() (model.CustomAction, error) {
	pt, err := model.ParsePatternType(c.PatternType)
	if err != nil {
		return model.CustomAction{}, fmt.Errorf("custom action %q: %w", c.Name, err)
	}
	action := model.CustomAction{
		Name:        c.Name,
		Consumes:    c.Consumes,
		Produces:    c.Produces,
		PatternType: pt,
	}
	if err := action.Validate(); err != nil {
		return model.CustomAction{}, fmt.Errorf("custom action %q: %w", c.Name, err)
	}
	return action, nil
}

// Actions returns the configured custom actions for a pattern type.
func (c FileConfig) Actions(pt model.PatternType) ([]model.CustomAction, error) {
	var out []model.CustomAction
	for _, entry := range c.CustomActions {
		action, err := entry.Action()
		if err != nil {
			return nil, err
		}
		if action.PatternType == pt {
			out = append(out, action)
		}
	}
	return out, nil
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
