// Package config loads and persists the CLI's run configuration: the
// handful of scalar knobs (game, directories, compression/overwrite/
// remove policy) repeated invocations of the bsa CLI shouldn't have to
// respecify every time. This is a direct reflection of spec.md's "JSON
// configuration persistence" external collaborator, promoted to a
// minimal concrete implementation.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// RunConfig is the persisted shape of a CLI invocation's settings. No
// third-party schema/validation library is wired for this: every field
// is a scalar under the CLI's own control, so encoding/json is the
// correct tool rather than a gap (see DESIGN.md).
type RunConfig struct {
	Game              string `json:"game"`
	InputDir          string `json:"input_dir,omitempty"`
	OutputDir         string `json:"output_dir,omitempty"`
	Compress          bool   `json:"compress"`
	OverwriteExisting bool   `json:"overwrite_existing"`
	RemoveArchive     bool   `json:"remove_archive"`
}

// Path returns the config file location: $XDG_CONFIG_HOME/bsa/config.json,
// falling back to os.UserConfigDir when XDG_CONFIG_HOME is unset.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "bsa", "config.json"), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "bsa", "config.json"), nil
}

// Load reads the run configuration from Path(). A missing file is not
// an error: it returns the zero-value RunConfig, letting the CLI fall
// back to flag defaults.
func Load() (RunConfig, error) {
	path, err := Path()
	if err != nil {
		return RunConfig{}, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return RunConfig{}, nil
	}
	if err != nil {
		return RunConfig{}, err
	}
	var cfg RunConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return RunConfig{}, err
	}
	return cfg, nil
}

// Save writes cfg to Path(), creating its parent directory if needed.
func Save(cfg RunConfig) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
