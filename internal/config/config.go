package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kk-code-lab/ccc/internal/state"
	"github.com/kk-code-lab/ccc/internal/ui/input"
	"gopkg.in/yaml.v3"
)

// Environment variables read on top of the config file.
const (
	EnvTrash   = "CCC_TRASH"
	EnvLastDir = "CCC_LAST_D"
)

const appName = "ccc"

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config holds the user-tunable settings. Command fields are shell-like
// strings; "{}" in Pager stands for the previewed file.
type Config struct {
	ShowHidden   bool              `yaml:"show_hidden"`
	ShowDetails  bool              `yaml:"show_details"`
	ShowIcons    bool              `yaml:"show_icons"`
	DirsSize     bool              `yaml:"dirs_size"`
	Editor       string            `yaml:"editor"`
	Pager        string            `yaml:"pager"`
	Clipboard    string            `yaml:"clipboard"`
	Opener       string            `yaml:"opener"`
	Shell        string            `yaml:"shell"`
	TrashDir     string            `yaml:"trash_dir"`
	LastDirFile  string            `yaml:"last_dir_file"`
	JumpDistance int               `yaml:"jump_distance"`
	SplitOffset  int               `yaml:"split_offset"`
	MinCols      int               `yaml:"min_cols"`
	MinRows      int               `yaml:"min_rows"`
	HidePatterns []string          `yaml:"hide_patterns"`
	Watch        bool              `yaml:"watch"`
	Keys         map[string]string `yaml:"keys"`
}

// Default returns the built-in settings before the environment is applied.
func Default() *Config {
	return &Config{
		ShowIcons:    true,
		TrashDir:     "~/.cache/ccc/trash",
		LastDirFile:  "~/.cache/ccc/.ccc_d",
		JumpDistance: 14,
		MinCols:      80,
		MinRows:      24,
		Watch:        true,
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/ccc/config.yaml, falling back to
// ~/.config/ccc/config.yaml.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.yaml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName, "config.yaml"), nil
}

// Load reads the config file at path. An empty path selects DefaultPath, and a
// missing default file is not an error. The environment is applied after the
// file and the result is validated.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		var err error
		if path, err = DefaultPath(); err != nil {
			return nil, err
		}
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if cfg, err = LoadFrom(bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg.ApplyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFrom decodes YAML from r over the defaults. Unknown keys are rejected.
func LoadFrom(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides settings from the environment.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvTrash); v != "" {
		c.TrashDir = v
	}
	if v := getenv(EnvLastDir); v != "" {
		c.LastDirFile = v
	}
	if c.Editor == "" {
		for _, name := range []string{"VISUAL", "EDITOR"} {
			if v := getenv(name); v != "" {
				c.Editor = v
				break
			}
		}
	}
	if c.Shell == "" {
		c.Shell = getenv("SHELL")
	}
	c.TrashDir = expandUserPath(c.TrashDir)
	c.LastDirFile = expandUserPath(c.LastDirFile)
}

// Validate checks ranges, patterns, and key bindings.
func (c *Config) Validate() error {
	if c.JumpDistance < 1 {
		return fmt.Errorf("%w: jump_distance must be positive, got %d", ErrInvalid, c.JumpDistance)
	}
	if c.MinCols < 1 || c.MinRows < 2 {
		return fmt.Errorf("%w: minimum size %dx%d is too small", ErrInvalid, c.MinCols, c.MinRows)
	}
	if _, err := state.CompileHidePatterns(c.HidePatterns); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := c.Keymap(); err != nil {
		return err
	}
	return nil
}

// Keymap returns the default bindings with the keys section applied.
func (c *Config) Keymap() (input.Keymap, error) {
	km := input.DefaultKeymap()
	for key, action := range c.Keys {
		if err := km.Bind(key, action); err != nil {
			return nil, fmt.Errorf("%w: keys.%s: %v", ErrInvalid, key, err)
		}
	}
	return km, nil
}
